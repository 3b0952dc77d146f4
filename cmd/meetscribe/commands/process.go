package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/meetscribe/pkg/session"
)

var processFlags struct {
	outputDir string
}

var processCmd = &cobra.Command{
	Use:   "process <recording.wav>",
	Short: "Re-run transcription and diarization over an existing recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		opts, err := sessionOptions(cfg, processFlags.outputDir, false)
		if err != nil {
			return err
		}
		if opts.Transcriber == nil {
			return fmt.Errorf("transcriber backend is %q; nothing to do", cfg.Transcriber.Backend)
		}

		s := session.New(nil, nil, opts)
		if err := s.ProcessFile(cmd.Context(), args[0]); err != nil {
			return err
		}

		paths := s.Paths()
		printIfExists(styles.Label.Render("transcript:   "), paths.Transcription)
		printIfExists(styles.Label.Render("diarized:     "), paths.Diarized)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processFlags.outputDir, "output", "o", "", "artifact directory (overrides config)")
	rootCmd.AddCommand(processCmd)
}
