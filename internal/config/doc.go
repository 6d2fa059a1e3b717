// Package config loads runtime configuration for the seedlock CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -config or SEEDLOCK_CONFIG.
//  3. Environment variables prefixed SEEDLOCK_.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations are strings like "5m" or integer nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.seedlock",
//	  "profile": "default",
//	  "store": "file",
//	  "kdf": "argon2id",
//	  "lock_timeout": "5m",
//	  "registry": "sqlite",
//	  "registry_url": "",
//	  "rpc_url": "https://rpc.example",
//	  "token_address": "0x...",
//	  "token_decimals": 6,
//	  "log_level": "info",
//	  "unlock_attempts_per_minute": 0
//	}
package config
