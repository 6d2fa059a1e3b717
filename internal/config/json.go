package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts "5m"-style strings or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values.
type JSONConfig struct {
	DataDir                 *string   `json:"data_dir"`
	Profile                 *string   `json:"profile"`
	StoreBackend            *string   `json:"store"`
	KDF                     *string   `json:"kdf"`
	LockTimeout             *Duration `json:"lock_timeout"`
	RegistryBackend         *string   `json:"registry"`
	RegistryURL             *string   `json:"registry_url"`
	RPCURL                  *string   `json:"rpc_url"`
	TokenAddress            *string   `json:"token_address"`
	TokenDecimals           *int      `json:"token_decimals"`
	LogLevel                *string   `json:"log_level"`
	UnlockAttemptsPerMinute *int      `json:"unlock_attempts_per_minute"`
}

// parseJSON overlays cfg with the fields present in the file at path.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.Profile, jc.Profile)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.KDF, jc.KDF)
	if jc.LockTimeout != nil {
		cfg.LockTimeout = jc.LockTimeout.Duration
	}
	setString(&cfg.RegistryBackend, jc.RegistryBackend)
	setString(&cfg.RegistryURL, jc.RegistryURL)
	setString(&cfg.RPCURL, jc.RPCURL)
	setString(&cfg.TokenAddress, jc.TokenAddress)
	if jc.TokenDecimals != nil {
		cfg.TokenDecimals = *jc.TokenDecimals
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.UnlockAttemptsPerMinute != nil {
		cfg.UnlockAttemptsPerMinute = *jc.UnlockAttemptsPerMinute
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
