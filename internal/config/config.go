package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the resolved configuration for every command.
type Settings struct {
	BaseURL        string           `mapstructure:"base_url"`
	PollInterval   time.Duration    `mapstructure:"poll_interval"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	LogLevel       string           `mapstructure:"log_level"`
	LogFormat      string           `mapstructure:"log_format"`
	Filter         string           `mapstructure:"filter"`
	Cue            CueSettings      `mapstructure:"cue"`
	Notify         NotifySettings   `mapstructure:"notify"`
	Exporter       ExporterSettings `mapstructure:"exporter"`
}

type CueSettings struct {
	Mode   string `mapstructure:"mode"`
	Player string `mapstructure:"player"`
	Asset  string `mapstructure:"asset"`
}

type NotifySettings struct {
	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`
	WebhookURL  string `mapstructure:"webhook_url"`
}

type ExporterSettings struct {
	Port string `mapstructure:"port"`
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("request_timeout", 5*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("filter", "all")
	v.SetDefault("cue.mode", "bell")
	v.SetDefault("cue.player", "")
	v.SetDefault("cue.asset", "")
	v.SetDefault("notify.nats_url", "")
	v.SetDefault("notify.nats_subject", "drishti.alerts")
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("exporter.port", "9110")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".drishti-cli" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".drishti-cli")
	}

	SetDefaults(viper.GetViper())
	bindEnv(viper.GetViper())

	// A missing default file is fine; anything else is worth a warning
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// bindEnv maps DRISHTI_BASE_URL, DRISHTI_CUE_MODE, ... onto their keys.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("DRISHTI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load resolves the global configuration.
func Load() (*Settings, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom resolves the configuration held by v.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if s.BaseURL == "" {
		return nil, errors.New("base_url must not be empty")
	}
	if s.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", s.PollInterval)
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return &s, nil
}
