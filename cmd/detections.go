package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"drishti-cli/internal/view"
)

var detectionsCmd = &cobra.Command{
	Use:   "detections",
	Short: "List objects in the latest detection frame",
	Run: func(cmd *cobra.Command, args []string) {
		api := newClient(mustSettings())

		detections, err := api.Detections(context.Background())
		if err != nil {
			fail("Error fetching detections", err)
		}

		v := view.Build(view.Input{Detections: detections}, time.Now())

		if printStructured(os.Stdout, v.Overlays) {
			return
		}
		renderOverlays(os.Stdout, v.Overlays)
	},
}

func init() {
	rootCmd.AddCommand(detectionsCmd)
}
