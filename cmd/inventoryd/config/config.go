// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config builds the inventoryd daemon's configuration the way
// cmd/simulator/main/main.go builds its own: a pflag.FlagSet is bound
// into a viper.Viper so flags, environment variables, and an optional
// YAML file all layer onto the same keys, then decoded into a typed
// Config.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment-variable form of a
	// config key, e.g. --hub-chain-id becomes INVENTORYD_HUB_CHAIN_ID.
	EnvPrefix = "INVENTORYD"

	VersionKey             = "version"
	LogLevelKey            = "log-level"
	LogFileKey             = "log-file"
	ConfigFileKey          = "config-file"
	HubChainIDKey          = "hub-chain-id"
	SimModeKey             = "sim-mode"
	RebalanceIntervalKey   = "rebalance-interval"
	UnwrapIntervalKey      = "unwrap-interval"
	MetricsListenAddrKey   = "metrics-listen-addr"
	WrappedNativeSymbolKey = "wrapped-native-symbol"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Config is the daemon-level configuration decoded from flags/env/file.
// The per-(token,chain) InventoryConfig itself (spec.md §3) is loaded
// separately from ConfigFile, since it is operator data rather than
// daemon wiring.
type Config struct {
	LogLevel            string
	LogFile             string
	ConfigFile          string
	HubChainID          uint64
	SimMode             bool
	RebalanceInterval   string
	UnwrapInterval      string
	MetricsListenAddr   string
	WrappedNativeSymbol string
}

// BuildFlagSet declares every flag inventoryd accepts.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("inventoryd", pflag.ContinueOnError)

	fs.Bool(VersionKey, false, "print the version and exit")
	fs.String(LogLevelKey, "info", "log level: trace, debug, info, warn, error, crit")
	fs.String(LogFileKey, "", "if set, write logs to this file (rotated via lumberjack-style size/age policy) in addition to stderr")
	fs.String(ConfigFileKey, "", "path to the operator InventoryConfig YAML file (token targets/thresholds)")
	fs.Uint64(HubChainIDKey, 1, "the hub chain id")
	fs.Bool(SimModeKey, false, "simulate cross-chain transfers and unwraps instead of broadcasting them")
	fs.String(RebalanceIntervalKey, "2m", "how often to run the rebalance cycle")
	fs.String(UnwrapIntervalKey, "5m", "how often to run the native-gas unwrap cycle")
	fs.String(MetricsListenAddrKey, ":9090", "address to serve /metrics on")
	fs.String(WrappedNativeSymbolKey, "WETH", "well-known symbol addressing the L1 wrapped-native token")

	return fs
}

// BuildViper binds fs into a fresh viper.Viper, parsing args against fs
// and layering in INVENTORYD_-prefixed environment variables.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if cf := v.GetString(ConfigFileKey); cf != "" {
		v.SetConfigFile(cf)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", cf, err)
		}
	}

	return v, nil
}

// BuildConfig decodes v into a typed Config.
func BuildConfig(v *viper.Viper) (Config, error) {
	return Config{
		LogLevel:            v.GetString(LogLevelKey),
		LogFile:             v.GetString(LogFileKey),
		ConfigFile:          v.GetString(ConfigFileKey),
		HubChainID:          v.GetUint64(HubChainIDKey),
		SimMode:             v.GetBool(SimModeKey),
		RebalanceInterval:   v.GetString(RebalanceIntervalKey),
		UnwrapInterval:      v.GetString(UnwrapIntervalKey),
		MetricsListenAddr:   v.GetString(MetricsListenAddrKey),
		WrappedNativeSymbol: v.GetString(WrappedNativeSymbolKey),
	}, nil
}
