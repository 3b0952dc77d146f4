package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/meetscribe/cmd/meetscribe/internal/config"
	"github.com/haivivi/meetscribe/pkg/cli"
)

var (
	// Global flags
	verbose bool

	// Global configuration (loaded at init time)
	globalConfig *config.Config

	// Shared terminal styles
	styles = cli.NewStyles(cli.DefaultTheme)
)

var rootCmd = &cobra.Command{
	Use:   "meetscribe",
	Short: "Record, transcribe, and diarize meetings",
	Long: `meetscribe - an offline-first meeting recorder.

It captures the microphone and system audio at the same time, mixes the
two streams into a single track, and turns the result into a transcript
with per-speaker attribution.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/meetscribe/config.yaml
  Linux:   ~/.config/meetscribe/config.yaml
  Windows: %AppData%/meetscribe/config.yaml

Examples:
  # Record until Ctrl-C, then transcribe and diarize
  meetscribe record

  # Record without the microphone
  meetscribe record --no-mic

  # Re-process an earlier recording
  meetscribe process output/20260829/recording_143005.wav

  # List capture devices
  meetscribe devices`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// GetConfig returns the global configuration, falling back to defaults
// when no file exists.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		globalConfig = config.Default()
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
