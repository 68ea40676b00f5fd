package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays TASKKEEPER_* variables. Unset variables keep the value
// already in config.
func parseEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
