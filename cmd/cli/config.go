package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cliConfig holds the settings shared by every subcommand.
// Precedence: flags > CHICUADRADO_* env > config file > defaults.
type cliConfig struct {
	Alpha   float64 `mapstructure:"alpha"`
	Yates   bool    `mapstructure:"yates"`
	Format  string  `mapstructure:"format"`
	MaxMB   int     `mapstructure:"max_mb"`
	Verbose bool    `mapstructure:"verbose"`
}

var outputFormats = map[string]bool{"text": true, "json": true, "yaml": true}

func loadCLIConfig(cfgFile string, flags *pflag.FlagSet) (*cliConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("CHICUADRADO")
	v.AutomaticEnv()

	v.SetDefault("alpha", 0.05)
	v.SetDefault("yates", true)
	v.SetDefault("format", "text")
	v.SetDefault("max_mb", 50)
	v.SetDefault("verbose", false)

	for key, flag := range map[string]string{"alpha": "alpha", "yates": "yates", "format": "format", "verbose": "verbose"} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var c cliConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !outputFormats[c.Format] {
		return nil, fmt.Errorf("unknown output format %q (use text, json or yaml)", c.Format)
	}
	if c.MaxMB <= 0 {
		return nil, fmt.Errorf("max_mb must be positive")
	}
	return &c, nil
}
