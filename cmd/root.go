package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"drishti-cli/internal/config"
)

var cfgFile string
var jsonOutput bool
var yamlOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drishti-cli",
	Short: "A CLI for the VeerDrishti situational-awareness backend",
	Long: `Watch detections, soldier vitals and alerts from a VeerDrishti backend.
New HIGH alerts raise a banner and an audible cue exactly once.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.drishti-cli.yaml)")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output results as YAML")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.PersistentFlags().String("base-url", "", "Backend base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error, off")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: console or json")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}
