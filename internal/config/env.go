package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "SEEDLOCK_"

// parseEnv overlays cfg with SEEDLOCK_* variables that are set and non-empty.
func parseEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"DATA_DIR":      &cfg.DataDir,
		"PROFILE":       &cfg.Profile,
		"STORE":         &cfg.StoreBackend,
		"KDF":           &cfg.KDF,
		"REGISTRY":      &cfg.RegistryBackend,
		"REGISTRY_URL":  &cfg.RegistryURL,
		"RPC_URL":       &cfg.RPCURL,
		"TOKEN_ADDRESS": &cfg.TokenAddress,
		"LOG_LEVEL":     &cfg.LogLevel,
	}
	for name, dst := range strs {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TOKEN_DECIMALS":             &cfg.TokenDecimals,
		"UNLOCK_ATTEMPTS_PER_MINUTE": &cfg.UnlockAttemptsPerMinute,
	}
	for name, dst := range ints {
		v := getenv(envPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, envPrefix, name, v)
		}
		*dst = n
	}

	if v := getenv(envPrefix + "LOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sLOCK_TIMEOUT=%q", ErrInvalidConfig, envPrefix, v)
		}
		cfg.LockTimeout = d
	}
	return nil
}
