package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"drishti-cli/internal/client"
	"drishti-cli/internal/config"
	"drishti-cli/internal/logging"
)

// mustSettings loads the resolved configuration or exits.
func mustSettings() *config.Settings {
	s, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return s
}

func newClient(s *config.Settings) *client.Client {
	return client.New(client.ClientConfig{
		BaseURL: s.BaseURL,
		Timeout: s.RequestTimeout,
	})
}

func newLogger(s *config.Settings) zerolog.Logger {
	return logging.New(s.LogLevel, s.LogFormat, os.Stderr)
}

// printStructured writes v as JSON or YAML when one was requested and
// reports whether it did.
func printStructured(w io.Writer, v any) bool {
	return encodeStructured(w, v, false)
}

// printFrame is printStructured for streams: JSON stays on one line and
// every YAML document starts with "---".
func printFrame(w io.Writer, v any) bool {
	return encodeStructured(w, v, true)
}

func encodeStructured(w io.Writer, v any, compact bool) bool {
	switch {
	case jsonOutput:
		enc := json.NewEncoder(w)
		if !compact {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(v); err != nil {
			fmt.Printf("Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return true
	case yamlOutput:
		if compact {
			fmt.Fprintln(w, "---")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			fmt.Printf("Error encoding YAML: %v\n", err)
			os.Exit(1)
		}
		_ = enc.Close()
		return true
	}
	return false
}

func fail(format string, err error) {
	fmt.Printf(format+": %v\n", err)
	os.Exit(1)
}

// bindFilterFlag binds the running command's --filter flag. Binding happens
// at run time since several commands share the key.
func bindFilterFlag(cmd *cobra.Command, _ []string) {
	_ = viper.BindPFlag("filter", cmd.Flags().Lookup("filter"))
}
