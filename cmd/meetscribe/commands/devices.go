package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/meetscribe/pkg/capture"
	"github.com/haivivi/meetscribe/pkg/cli"
)

var devicesFlags struct {
	format string
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		audioCtx, err := capture.NewContext()
		if err != nil {
			return err
		}
		defer audioCtx.Close()

		devices, err := audioCtx.InputDevices()
		if err != nil {
			return err
		}

		if devicesFlags.format != "" {
			return cli.Output(devices, cli.OutputOptions{
				Format: cli.OutputFormat(devicesFlags.format),
			})
		}

		for _, d := range devices {
			line := d.Name
			if d.Default {
				line += styles.Label.Render("  (default)")
			}
			if d.Monitor {
				line += styles.Help.Render("  (system audio)")
			}
			fmt.Println(line)
		}
		if len(devices) == 0 {
			fmt.Println(styles.Warn.Render("no capture devices found"))
		}
		return nil
	},
}

func init() {
	devicesCmd.Flags().StringVarP(&devicesFlags.format, "format", "f", "", "output format (yaml, json)")
	rootCmd.AddCommand(devicesCmd)
}
