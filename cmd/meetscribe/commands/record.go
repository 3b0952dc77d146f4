package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haivivi/meetscribe/pkg/capture"
	"github.com/haivivi/meetscribe/pkg/mix"
	"github.com/haivivi/meetscribe/pkg/session"
)

var recordFlags struct {
	noMic        bool
	noTranscribe bool
	outputDir    string
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a meeting until interrupted, then transcribe and diarize",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		opts, err := sessionOptions(cfg, recordFlags.outputDir, recordFlags.noTranscribe)
		if err != nil {
			return err
		}
		opts.NoMic = recordFlags.noMic

		audioCtx, err := capture.NewContext()
		if err != nil {
			return err
		}
		defer audioCtx.Close()
		micBackend, systemBackend := audioCtx.Backends()

		s := session.New(micBackend, systemBackend, opts)
		fmt.Println(styles.Title.Render("● recording") +
			styles.Help.Render("  press Ctrl-C to stop"))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := s.Run(ctx); err != nil {
			if errors.Is(err, mix.ErrNoAudioCaptured) {
				fmt.Println(styles.Warn.Render("no audio captured, nothing saved"))
				return nil
			}
			return err
		}

		paths := s.Paths()
		fmt.Println(styles.Label.Render("recording:    ") + paths.Recording)
		if opts.Transcriber != nil {
			printIfExists(styles.Label.Render("transcript:   "), paths.Transcription)
			printIfExists(styles.Label.Render("diarized:     "), paths.Diarized)
		}
		return nil
	},
}

func printIfExists(label, path string) {
	if _, err := os.Stat(path); err == nil {
		fmt.Println(label + path)
	}
}

func init() {
	recordCmd.Flags().BoolVar(&recordFlags.noMic, "no-mic", false, "skip the microphone stream")
	recordCmd.Flags().BoolVar(&recordFlags.noTranscribe, "no-transcribe", false, "record only, skip transcription and diarization")
	recordCmd.Flags().StringVarP(&recordFlags.outputDir, "output", "o", "", "artifact directory (overrides config)")
	rootCmd.AddCommand(recordCmd)
}
