// Package config obtains process configuration from the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the two environment-driven settings spec.md §6 names.
// No on-disk state and no config file — this is a relay process, not a
// persistent service (spec.md §1 Non-goals).
type Config struct {
	Port       int    `mapstructure:"port"`
	AdminToken string `mapstructure:"admin_token"`
}

// Load reads PORT and ADMIN_TOKEN from the environment, falling back to
// spec.md §6's defaults (5000, "admin1234"). Uses the global viper
// instance — cmd/walkie binds the `--port`/`--admin-token` flags onto
// the same instance before calling Load, so a flag always overrides its
// matching env var. Grounded on the teacher's config.Load
// (internal/config/config.go) and gregriff-vogo's global-viper CLI
// wiring (server/cmd/run.go), trimmed to the env-only surface this
// relay needs — no config file, per spec.md §6 "no on-disk state".
func Load() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetDefault("port", 5000)
	viper.SetDefault("admin_token", "admin1234")
	_ = viper.BindEnv("port", "PORT")
	_ = viper.BindEnv("admin_token", "ADMIN_TOKEN")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
