package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"a2t/internal/app"
	"a2t/internal/app/logging"
	"a2t/internal/config"
)

const shutdownTimeout = 30 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload page and JSON API",
	Long: `Run the upload page and JSON API.

The AssemblyAI key is read from the secrets file (A2T_SECRETS_FILE, default
secrets.yaml) and then from ASSEMBLYAI_API_KEY. Without it the server does not start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		logger, err := logging.NewLogger(settings.Development())
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		providers, err := config.DefaultSecretProviders(settings.SecretsFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return Run(ctx, settings, providers, logger)
	},
}

// Run resolves the API key, starts the server and blocks until ctx is done
// or serving fails. A missing key is returned before anything listens.
func Run(ctx context.Context, settings *config.Settings, providers []config.SecretProvider, logger *zap.Logger) error {
	key, err := config.RequireAPIKey(providers...)
	if err != nil {
		logger.Error("Cannot start without an AssemblyAI API key", zap.Error(err))
		return err
	}
	logger.Info("Resolved AssemblyAI API key", zap.String("source", key.Source))

	srv, cleanup, err := app.InitializeServer(ctx, settings, key, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := srv.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-srv.Errors():
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
