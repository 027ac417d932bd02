// Package main contains the cli implementation of the server daemon.
// It uses cobra package for cli tool implementation.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nodeframe/internal/applog"
	"nodeframe/internal/config"
	"nodeframe/internal/nodelib"
	"nodeframe/internal/node"
	"nodeframe/internal/server"
	"nodeframe/internal/session"
	"nodeframe/internal/store"
)

type serveFlags struct {
	configPath string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "nodeframed",
		Short: "Serves the node-graph execution engine over HTTP",
	}
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "nodeframe.toml", "path to the server config file")
	return cmd
}

func runServe(flags *serveFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := applog.New(cfg.Log.Level)

	ctx := context.Background()
	st, err := store.Open(ctx, store.Options{Path: cfg.Store.Path})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	registry := node.NewRegistry()
	nodelib.RegisterAll(registry)

	sessions := session.NewManager(time.Duration(cfg.Server.SessionTimeoutS) * time.Second)
	go sweepLoop(sessions)

	srv := server.New(st, registry, sessions, logger)

	logger.Info("listening", "addr", cfg.Server.ListenAddr)
	return http.ListenAndServe(cfg.Server.ListenAddr, srv)
}

func sweepLoop(sessions *session.Manager) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		sessions.SweepIdle()
	}
}
