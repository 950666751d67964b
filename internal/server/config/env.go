package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// parseEnv overrides fields whose environment variable is set. Unset
// variables leave the current value untouched.
func parseEnv(config *Config) {
	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("reading environment: %w", err))
	}
}

// envUsage lists the recognised environment variables.
func envUsage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
