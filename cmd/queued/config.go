package main

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds queued's process configuration, bindable from flags,
// environment variables (QUEUED_*), and (if present) a config file
// named queued.yaml/json/toml on the working directory or /etc/queued.
type Config struct {
	Listen       string        `mapstructure:"listen"`
	DefaultLease time.Duration `mapstructure:"default_lease"`
	ExpiryPoll   time.Duration `mapstructure:"expiry_poll"`
	ArchiveDB    string        `mapstructure:"archive_db"`
	LogLevel     string        `mapstructure:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Listen:       ":17901",
		DefaultLease: 300 * time.Second,
		ExpiryPoll:   time.Second,
		ArchiveDB:    "",
		LogLevel:     "info",
	}
}

// loadConfig parses args (typically os.Args[1:]) and overlays flags and
// QUEUED_*-prefixed environment variables onto defaultConfig.
func loadConfig(args []string) (Config, error) {
	cfg := defaultConfig()

	flags := pflag.NewFlagSet("queued", pflag.ContinueOnError)
	flags.String("listen", cfg.Listen, "address to listen on (default port 17901)")
	flags.Duration("default-lease", cfg.DefaultLease, "default item lease duration")
	flags.Duration("expiry-poll", cfg.ExpiryPoll, "how often expired leases are swept")
	flags.String("archive-db", cfg.ArchiveDB, "sqlite path for the archive sink (empty disables it)")
	flags.String("log-level", cfg.LogLevel, "debug, info, warn, or error")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix("queued")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("queued")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/queued")

	if err := v.BindPFlags(flags); err != nil {
		return cfg, err
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	cfg.Listen = v.GetString("listen")
	cfg.DefaultLease = v.GetDuration("default-lease")
	cfg.ExpiryPoll = v.GetDuration("expiry-poll")
	cfg.ArchiveDB = v.GetString("archive-db")
	cfg.LogLevel = v.GetString("log-level")
	return cfg, nil
}

func (c Config) logLevel() int {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return -4
	case "warn":
		return 4
	case "error":
		return 8
	default:
		return 0
	}
}
