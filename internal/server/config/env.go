package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays environment variables onto the Config using the `env`
// struct tags. Unset variables leave the current values alone. A malformed
// value (e.g. an unparsable TOKEN_VALIDITY) panics: startup, fail fast.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
