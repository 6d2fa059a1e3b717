package config

import (
	"flag"
	"strings"
)

// registerFlags binds cfg fields to fs using the current values as defaults.
func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding wallet data")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "wallet profile name")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "vault store backend (file|keyring)")
	fs.StringVar(&cfg.KDF, "kdf", cfg.KDF, "password KDF for new vaults (argon2id|scrypt)")
	fs.DurationVar(&cfg.LockTimeout, "lock-timeout", cfg.LockTimeout, "inactivity lock timeout")
	fs.StringVar(&cfg.RegistryBackend, "registry", cfg.RegistryBackend, "user registry backend (sqlite|http)")
	fs.StringVar(&cfg.RegistryURL, "registry-url", cfg.RegistryURL, "base URL of the HTTP user registry")
	fs.StringVar(&cfg.RPCURL, "rpc-url", cfg.RPCURL, "Ethereum JSON-RPC endpoint")
	fs.StringVar(&cfg.TokenAddress, "token", cfg.TokenAddress, "ERC-20 token contract address")
	fs.IntVar(&cfg.TokenDecimals, "token-decimals", cfg.TokenDecimals, "ERC-20 token decimals")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.IntVar(&cfg.UnlockAttemptsPerMinute, "unlock-rate", cfg.UnlockAttemptsPerMinute, "max unlock attempts per minute (0 = unlimited)")
}

// configPath finds -config in args, falling back to SEEDLOCK_CONFIG.
func configPath(args []string, getenv func(string) string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return getenv(envPrefix + "CONFIG")
}
