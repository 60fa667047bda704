package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"drishti-cli/internal/view"
)

const clearScreen = "\033[H\033[2J"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard with HIGH alert escalation",
	Long: `Polls detections, soldiers and alerts once per interval and redraws
the dashboard. A new HIGH alert raises a banner and plays the configured cue
once; the banner clears when no HIGH alert remains in the window.

With --json every frame is written as one JSON document per line; with
--yaml every frame is a separate YAML document.`,
	Example: `  drishti-cli watch --filter high --interval 2s`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFilterFlag(cmd, args)
		_ = viper.BindPFlag("poll_interval", cmd.Flags().Lookup("interval"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSettings()
		logger := newLogger(s)

		structured := jsonOutput || yamlOutput
		cueOut := os.Stdout
		if structured {
			cueOut = os.Stderr
		}

		p, err := newPipeline(s, logger, cueOut, nil)
		if err != nil {
			fail("Error starting monitor", err)
		}

		p.Session.OnChange(func(v view.View) {
			if structured {
				printFrame(os.Stdout, v)
				return
			}
			fmt.Print(clearScreen)
			renderDashboard(os.Stdout, v)
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("filter", "", "Severity filter: all, high, medium, low")
	watchCmd.Flags().Duration("interval", 0, "Poll interval (default 1s)")
}
