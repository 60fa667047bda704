package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"drishti-cli/internal/view"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List alerts in the backend's current window",
	Example: `  drishti-cli alerts --filter high
  drishti-cli alerts --json`,
	PreRun: bindFilterFlag,
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSettings()

		filter, err := view.ParseFilter(s.Filter)
		if err != nil {
			fail("Error", err)
		}

		api := newClient(s)
		alerts, err := api.Alerts(context.Background())
		if err != nil {
			fail("Error fetching alerts", err)
		}

		v := view.Build(view.Input{Alerts: alerts, Filter: filter}, time.Now())

		if printStructured(os.Stdout, v.Alerts) {
			return
		}
		renderAlerts(os.Stdout, v.Alerts)
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.Flags().String("filter", "", "Severity filter: all, high, medium, low")
}
