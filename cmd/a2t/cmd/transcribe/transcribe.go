package transcribe

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"a2t/internal/app"
	"a2t/internal/app/converter"
	"a2t/internal/app/logging"
	"a2t/internal/app/pipeline"
	"a2t/internal/config"
)

var (
	outDir   string
	parallel int
	progress bool
)

func init() {
	Cmd.Flags().StringVarP(&outDir, "out", "o", "",
		"directory for the transcripts (default: next to each input)")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of files transcribed at once")
	Cmd.Flags().BoolVar(&progress, "progress", false, "show progress bars even when not on a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <file>...",
	Short: "Transcribe local audio files",
	Long: `Transcribe local audio files

- Each file is converted to WAV and sent to AssemblyAI with speaker labels
- The transcript is written as <name>_transcripcion.txt
- Accepted formats: wav, mp3, m4a, opus, ogg, flac, aac`,
	Args: cobra.MinimumNArgs(1),
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
		key, err := config.RequireAPIKey(providers...)
		if err != nil {
			return err
		}

		conv, err := app.InitializeConverter(settings, key, logger)
		if err != nil {
			return err
		}
		pac := converter.NewProgressAwareConverter(conv, converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(progress),
			Writer:  cmd.ErrOrStderr(),
		})
		defer pac.Close()

		results := pac.ConvertFilesWithProgress(cmd.Context(), args, outDir, parallel)
		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(out, "✗ %s: %s\n", r.Input, pipeline.Describe(r.Err))
				continue
			}
			fmt.Fprintf(out, "✓ %s -> %s\n", r.Input, r.Output)
		}

		if converter.Failed(results) > 0 {
			return errors.New(converter.Summary(results))
		}
		return nil
	},
}
