// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command inventoryd runs the Inventory Management Core's rebalance and
// native-gas unwrap cycles on a schedule, and exposes refund-chain
// selection over whatever surface the embedding deployment wires up
// (e.g. an RPC call from the fill path). Wiring the external
// collaborators — the token balance tracker, hub-pool client,
// cross-chain-transfer client, adapter manager, and bundle data client
// (spec.md §1 "Out of scope") — is the embedding deployment's job;
// buildCollaborators below is the seam where that wiring happens.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	luxlog "github.com/luxfi/log"

	"github.com/luxfi/relay-inventory/cmd/inventoryd/config"
	"github.com/luxfi/relay-inventory/internal/inventory"
	"github.com/luxfi/relay-inventory/internal/telemetry"
)

func main() {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Printf("couldn't build viper: %s\n", err)
		os.Exit(1)
	}

	if v.GetBool(config.VersionKey) {
		fmt.Printf("%s\n", config.Version)
		os.Exit(0)
	}

	cfg, err := config.BuildConfig(v)
	if err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Printf("couldn't set up logging: %s\n", err)
		os.Exit(1)
	}
	luxlog.SetDefault(logger)

	invCfg, err := config.LoadInventoryConfig(v)
	if err != nil {
		logger.Error("failed to load inventory config", "error", err)
		os.Exit(1)
	}
	if err := invCfg.Validate(); err != nil {
		logger.Error("invalid inventory config", "error", err)
		os.Exit(1)
	}

	collab, err := buildCollaborators(cfg)
	if err != nil {
		logger.Crit("no collaborators wired; inventoryd has nothing to drive", "error", err)
		os.Exit(1)
	}

	core := inventory.New(invCfg, collab, logger)

	reg := prometheus.NewRegistry()
	metrics := telemetry.New(reg)
	go serveMetrics(cfg.MetricsListenAddr, reg, logger)

	rebalanceInterval, err := time.ParseDuration(cfg.RebalanceInterval)
	if err != nil {
		logger.Error("invalid rebalance interval", "error", err)
		os.Exit(1)
	}
	unwrapInterval, err := time.ParseDuration(cfg.UnwrapInterval)
	if err != nil {
		logger.Error("invalid unwrap interval", "error", err)
		os.Exit(1)
	}

	r := &runner{
		core:                core,
		metrics:             metrics,
		log:                 logger,
		simMode:             cfg.SimMode,
		wrappedNativeSymbol: cfg.WrappedNativeSymbol,
		rebalanceInterval:   rebalanceInterval,
		unwrapInterval:      unwrapInterval,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("inventoryd starting", "simMode", cfg.SimMode, "rebalanceInterval", rebalanceInterval, "unwrapInterval", unwrapInterval)
	r.run(ctx)
	logger.Info("inventoryd shutting down")
}

// setupLogger builds a luxfi/log Logger. When LogFile is set, logs are
// written to disk through a lumberjack rotating writer instead of only
// stderr; luxlog.Logger has no SetOutput setter (see
// plugin/evm/gossip/logger_adapter.go's exhaustive method set in the
// teacher), so the writer is supplied as a log.Option at construction
// time through WithOptions, the interface's documented configuration
// surface.
func setupLogger(cfg config.Config) (luxlog.Logger, error) {
	lvl, err := luxlog.ToLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.LogLevel, err)
	}

	logger := luxlog.New()
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		logger = logger.WithOptions(luxlog.WithWriter(rotator))
	}
	logger.SetLevel(slog.Level(lvl))
	return logger, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger luxlog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server exited", "error", err)
	}
}

// buildCollaborators is the integration seam for the external systems
// spec.md §1 explicitly puts out of scope. A real deployment replaces
// this with one that constructs its RPC token client, hub-pool client,
// cross-chain-transfer client, adapter manager, and bundle data client.
func buildCollaborators(cfg config.Config) (inventory.Collaborators, error) {
	return inventory.Collaborators{}, fmt.Errorf("buildCollaborators is unimplemented: wire the token/hub-pool/transfer/adapter/bundle-data clients for your deployment")
}
