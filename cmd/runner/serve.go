package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the runner SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the mode menu. Runs are
stored per server (all users share the leaderboard); the progress record
and achievements are kept per SSH user.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.runner/host_key

Examples:
  runner serve                           # Listen on :23234
  runner serve --ssh :2222               # Listen on port 2222
  runner serve --host-key ./my_host_key  # Use specific host key
  runner serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Session logs are the point of a server; default to info
	if !cmd.Flags().Changed("log-level") {
		flagLogLevel = "info"
	}
	logger := newLogger("runner-ssh")

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Env:         loadEnv(logger),
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting runner SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")
	return server.Serve(ctx)
}
