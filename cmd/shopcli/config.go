package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// cliConfig holds the shopcli settings.
type cliConfig struct {
	Server  string
	DataDir string
	Timeout time.Duration
	Debug   bool
}

// loadConfig reads shopcli.toml from the working directory or
// ~/.config/shopcli, then SHOPCLI_* environment variables.
func loadConfig(path string) (cliConfig, error) {
	v := viper.New()
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("timeout", "10s")
	v.SetDefault("debug", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("shopcli")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "shopcli"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cliConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOPCLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := cliConfig{
		Server:  v.GetString("server"),
		DataDir: v.GetString("data_dir"),
		Timeout: v.GetDuration("timeout"),
		Debug:   v.GetBool("debug"),
	}
	if cfg.Server == "" {
		return cliConfig{}, fmt.Errorf("server is required")
	}
	if cfg.DataDir == "" {
		return cliConfig{}, fmt.Errorf("data_dir is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shopcli")
	}
	return ".shopcli"
}
