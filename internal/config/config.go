package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/logging"
)

// Store backends
const (
	StoreFile    = "file"
	StoreKeyring = "keyring"
)

// Registry backends
const (
	RegistrySQLite = "sqlite"
	RegistryHTTP   = "http"
)

// EnvPassword supplies the wallet password for non-interactive use.
const EnvPassword = "SEEDLOCK_PASSWORD"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the seedlock CLI.
type Config struct {
	DataDir                 string
	Profile                 string
	StoreBackend            string
	KDF                     string
	LockTimeout             time.Duration
	RegistryBackend         string
	RegistryURL             string
	RPCURL                  string
	TokenAddress            string
	TokenDecimals           int
	LogLevel                string
	UnlockAttemptsPerMinute int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.Profile = "default"
	c.StoreBackend = StoreFile
	c.KDF = crypto.KDFArgon2id
	c.LockTimeout = 5 * time.Minute
	c.RegistryBackend = RegistrySQLite
	c.RegistryURL = ""
	c.RPCURL = ""
	c.TokenAddress = ""
	c.TokenDecimals = 6
	c.LogLevel = "warn"
	c.UnlockAttemptsPerMinute = 0
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "seedlock")
	}
	return ".seedlock"
}

// Load builds a Config from defaults, the JSON file, the environment and
// finally the flags in args. Config flags are registered on fs next to any
// command-specific flags the caller already defined; fs is parsed here.
func Load(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := configPath(args, getenv)
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}

	var ignored string
	fs.StringVar(&ignored, "config", path, "path to JSON config file")
	registerFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields and ranges.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreFile, StoreKeyring:
	default:
		return fmt.Errorf("%w: store %q", ErrInvalidConfig, c.StoreBackend)
	}
	if _, err := crypto.ParamsByName(c.KDF); err != nil {
		return fmt.Errorf("%w: kdf %q", ErrInvalidConfig, c.KDF)
	}
	switch c.RegistryBackend {
	case RegistrySQLite:
	case RegistryHTTP:
		if c.RegistryURL == "" {
			return fmt.Errorf("%w: registry_url required for http registry", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: registry %q", ErrInvalidConfig, c.RegistryBackend)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("%w: lock timeout must be positive", ErrInvalidConfig)
	}
	if c.TokenDecimals < 0 || c.TokenDecimals > 36 {
		return fmt.Errorf("%w: token decimals %d", ErrInvalidConfig, c.TokenDecimals)
	}
	if c.UnlockAttemptsPerMinute < 0 {
		return fmt.Errorf("%w: unlock attempts must not be negative", ErrInvalidConfig)
	}
	if c.Profile == "" {
		return fmt.Errorf("%w: empty profile", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// KDFParams returns the default work factor for the configured KDF.
func (c *Config) KDFParams() crypto.KDFParams {
	p, err := crypto.ParamsByName(c.KDF)
	if err != nil {
		return crypto.DefaultArgon2id()
	}
	return p
}

// StorePath is the BBolt file for the profile.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, c.Profile, "wallet.db")
}

// RegistryPath is the local registry database.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.DataDir, "registry.db")
}
