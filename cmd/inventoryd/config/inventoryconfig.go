// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/viper"

	"github.com/luxfi/relay-inventory/internal/iface"
	"github.com/luxfi/relay-inventory/internal/inventory"
)

// rawChainTokenConfig mirrors inventory.ChainTokenConfig with
// YAML-friendly string fields for the fixed-point percentages, since
// viper/mapstructure has no native *big.Int support.
type rawChainTokenConfig struct {
	TargetPct           string `mapstructure:"targetPct"`
	ThresholdPct        string `mapstructure:"thresholdPct"`
	UnwrapWethThreshold string `mapstructure:"unwrapWethThreshold"`
	UnwrapWethTarget    string `mapstructure:"unwrapWethTarget"`
}

type rawInventoryConfig struct {
	HubChainID            uint64                                     `mapstructure:"hubChainId"`
	EnabledChains         []uint64                                   `mapstructure:"enabledChains"`
	NonCanonicalGasChains []uint64                                   `mapstructure:"nonCanonicalGasChains"`
	TokenConfig           map[string]map[string]rawChainTokenConfig  `mapstructure:"tokenConfig"`
	Disabled              bool                                       `mapstructure:"disabled"`
}

// LoadInventoryConfig decodes the operator-supplied per-(token,chain)
// InventoryConfig (spec.md §3) from v, which must already have a config
// file read into it (see BuildViper).
func LoadInventoryConfig(v *viper.Viper) (*inventory.Config, error) {
	var raw rawInventoryConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decoding inventory config: %w", err)
	}

	out := &inventory.Config{
		HubChainID:            iface.ChainID(raw.HubChainID),
		Disabled:              raw.Disabled,
		NonCanonicalGasChains: toChainIDs(raw.NonCanonicalGasChains),
		EnabledChains:         toChainIDs(raw.EnabledChains),
		TokenConfig:           make(map[iface.Address]map[iface.ChainID]inventory.ChainTokenConfig),
	}

	for tokenHex, byChain := range raw.TokenConfig {
		token, err := parseAddress(tokenHex)
		if err != nil {
			return nil, fmt.Errorf("tokenConfig key %q: %w", tokenHex, err)
		}
		out.TokenConfig[token] = make(map[iface.ChainID]inventory.ChainTokenConfig, len(byChain))
		for chainStr, rawCfg := range byChain {
			chain, err := parseChainID(chainStr)
			if err != nil {
				return nil, fmt.Errorf("tokenConfig[%s] chain %q: %w", tokenHex, chainStr, err)
			}
			cfg, err := rawCfg.toChainTokenConfig()
			if err != nil {
				return nil, fmt.Errorf("tokenConfig[%s][%s]: %w", tokenHex, chainStr, err)
			}
			out.TokenConfig[token][chain] = cfg
		}
	}

	return out, nil
}

func (r rawChainTokenConfig) toChainTokenConfig() (inventory.ChainTokenConfig, error) {
	target, err := parsePct(r.TargetPct)
	if err != nil {
		return inventory.ChainTokenConfig{}, fmt.Errorf("targetPct: %w", err)
	}
	threshold, err := parsePct(r.ThresholdPct)
	if err != nil {
		return inventory.ChainTokenConfig{}, fmt.Errorf("thresholdPct: %w", err)
	}
	if threshold.Cmp(target) > 0 {
		return inventory.ChainTokenConfig{}, fmt.Errorf("thresholdPct (%s) must be <= targetPct (%s)", threshold, target)
	}

	cfg := inventory.ChainTokenConfig{TargetPct: target, ThresholdPct: threshold}
	if r.UnwrapWethThreshold != "" {
		v, err := parsePct(r.UnwrapWethThreshold)
		if err != nil {
			return inventory.ChainTokenConfig{}, fmt.Errorf("unwrapWethThreshold: %w", err)
		}
		cfg.UnwrapWethThreshold = v
	}
	if r.UnwrapWethTarget != "" {
		v, err := parsePct(r.UnwrapWethTarget)
		if err != nil {
			return inventory.ChainTokenConfig{}, fmt.Errorf("unwrapWethTarget: %w", err)
		}
		cfg.UnwrapWethTarget = v
	}
	return cfg, nil
}

// parsePct parses a plain base-10 integer already scaled by 10^18 (the
// YAML author writes the scaled integer directly; spec.md §3 leaves the
// wire representation of the scalar unspecified).
func parsePct(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid fixed-point value %q", s)
	}
	return v, nil
}

func parseChainID(s string) (iface.ChainID, error) {
	var n uint64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err != nil {
		return 0, err
	}
	return iface.ChainID(n), nil
}

func toChainIDs(in []uint64) []iface.ChainID {
	out := make([]iface.ChainID, len(in))
	for i, v := range in {
		out[i] = iface.ChainID(v)
	}
	return out
}

func parseAddress(s string) (iface.Address, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return iface.Address{}, err
	}
	if len(b) != 20 {
		return iface.Address{}, fmt.Errorf("address must be 20 bytes, got %d", len(b))
	}
	var addr iface.Address
	copy(addr[:], b)
	return addr, nil
}
