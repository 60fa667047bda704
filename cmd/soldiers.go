package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"drishti-cli/internal/view"
)

var soldierID string

// Parent Command
var soldiersCmd = &cobra.Command{
	Use:   "soldiers",
	Short: "Soldier vitals and positions",
	Long:  `List tracked soldiers or trigger a simulated emergency for testing.`,
}

// List Command
var soldiersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked soldiers",
	Run: func(cmd *cobra.Command, args []string) {
		api := newClient(mustSettings())

		soldiers, err := api.Soldiers(context.Background())
		if err != nil {
			fail("Error fetching soldiers", err)
		}

		v := view.Build(view.Input{Soldiers: soldiers}, time.Now())

		if printStructured(os.Stdout, v.Soldiers) {
			return
		}
		renderSoldiers(os.Stdout, v.Soldiers)
	},
}

// Simulate Command
var soldiersSimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Put a soldier into a simulated emergency",
	Long: `Asks the backend to flag the soldier as CRITICAL. The resulting alert
appears on a later poll; run 'drishti-cli watch' to see it escalate.`,
	Example: `  drishti-cli soldiers simulate --id S001`,
	Run: func(cmd *cobra.Command, args []string) {
		api := newClient(mustSettings())

		fmt.Printf("Simulating emergency for soldier %s...\n", soldierID)

		msg, err := api.Simulate(context.Background(), soldierID)
		if err != nil {
			fail("Error simulating emergency", err)
		}

		fmt.Println(msg)
	},
}

func init() {
	// Register Parent
	rootCmd.AddCommand(soldiersCmd)

	// Register List
	soldiersCmd.AddCommand(soldiersListCmd)

	// Register Simulate
	soldiersCmd.AddCommand(soldiersSimulateCmd)
	soldiersSimulateCmd.Flags().StringVar(&soldierID, "id", "", "Soldier ID, e.g. S001")
	_ = soldiersSimulateCmd.MarkFlagRequired("id")
}
