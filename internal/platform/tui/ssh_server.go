package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// shutdownGrace bounds how long Serve waits for open sessions on exit.
const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the multi-user server.
type SSHServerConfig struct {
	Address     string // host:port
	HostKeyPath string // empty: <data dir>/host_key, generated on first start
	DBPath      string
	IdleTimeout time.Duration
	TickRate    int

	// Env is what every session's game is built from. Its Store is
	// swapped for the connecting user's namespace.
	Env registry.Env
}

// SSHServer hosts one runner session per SSH connection. All sessions
// share the runs table; progress records are kept per user.
type SSHServer struct {
	cfg    SSHServerConfig
	srv    *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer prepares the server. A runs database that cannot be opened
// is logged and sessions play without persistence.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Env.Logger == nil {
		cfg.Env.Logger = logger
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = filepath.Join(config.UserDataDir(), "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: host key dir: %w", err)
	}

	s := &SSHServer{cfg: cfg, logger: logger}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("sessions will not be saved", "db", cfg.DBPath, "error", err)
	} else {
		s.store = store
	}

	// Middlewares run last to first: log, require a terminal, then the program.
	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			activeterm.Middleware(),
			s.logSessions,
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("tui: ssh server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// sessionEnv scopes the progress record to one user.
func (s *SSHServer) sessionEnv(user string) registry.Env {
	env := s.cfg.Env
	env.Store = nil
	if s.store != nil {
		env.Store = s.store.Namespace(user)
	}
	return env
}

func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	rt := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.cfg.TickRate,
		Seed:     time.Now().UnixNano(),
	}
	return NewSessionModel(s.store, s.sessionEnv(sess.User()), rt), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("session started")
		next(sess)
		logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}
}

// Serve accepts connections until ctx is done, then gives open sessions
// shutdownGrace to finish. A listener failure is returned immediately.
func (s *SSHServer) Serve(ctx context.Context) error {
	defer s.closeStore()

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()
	s.logger.Info("listening", "address", s.cfg.Address)

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("tui: shutdown: %w", err)
	}
	return nil
}

func (s *SSHServer) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing runs database", "error", err)
	}
	s.store = nil
}
