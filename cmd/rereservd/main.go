// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Command rereservd runs the reservation service: it loads configuration
// (C7), connects the persistence pool (C9), wires the reservation manager
// (C3) behind the RPC facade (C5), and serves it until a shutdown signal
// (C6). Grounded on the teacher's cmd/slurm-cli/main.go cobra root command.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Chikage0o0/reservation/internal/config"
	"github.com/Chikage0o0/reservation/internal/facade"
	"github.com/Chikage0o0/reservation/internal/httpmw"
	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/manager"
	"github.com/Chikage0o0/reservation/internal/metrics"
	"github.com/Chikage0o0/reservation/internal/server"
	"github.com/Chikage0o0/reservation/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "rereservd",
	Short:   "Reservation service daemon",
	Long:    "rereservd arbitrates exclusive time-window ownership of named resources behind an HTTP+JSON RPC facade.",
	Version: Version,
	RunE:    runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.DefaultConfig())

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to persistence pool", "error", err)
		return err
	}
	defer st.Close()

	mgr := manager.New(st, logger)
	collector := metrics.NewInMemoryCollector()

	f := facade.New(mgr, logger)
	chain := httpmw.Chain(
		httpmw.WithRecovery(logger),
		httpmw.WithRequestID(),
		httpmw.WithLogging(logger),
		httpmw.WithMetrics(collector),
	)

	logger.Info("rereservd starting", "addr", cfg.ListenAddr(), "version", Version)
	return server.Run(ctx, cfg.ListenAddr(), chain(f.NewRouter()), logger)
}
