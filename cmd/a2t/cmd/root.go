package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"a2t/cmd/a2t/cmd/serve"
	"a2t/cmd/a2t/cmd/transcribe"
	"a2t/cmd/a2t/cmd/version"
	"a2t/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "Transcribe audio into speaker-labelled text with AssemblyAI",
	Long: `Transcribe audio into speaker-labelled text with AssemblyAI.
- serve: run the upload page and JSON API
- transcribe: run the same pipeline on local files
Uploads are converted to 16 kHz mono WAV with ffmpeg before they are sent.`,
	SilenceUsage:     true,
	TraverseChildren: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.LoadEnv()
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded environment from %s\n", path)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
