// SPDX-License-Identifier: MPL-2.0

package queryserve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"rawdex/internal/logging"
	"rawdex/internal/store"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated ServerState = iota
	// StateStarting indicates the server is in the process of starting.
	StateStarting
	// StateRunning indicates the server is running and accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped indicates the server has stopped (terminal state).
	StateStopped
	// StateFailed indicates the server failed to start or hit a fatal error (terminal state).
	StateFailed
)

const defaultAddress = "localhost:23234"

type (
	// ServerState represents the lifecycle state of the server.
	ServerState int32

	// Server hosts the SSH query console over a finished store.
	// A Server instance is single-use: once stopped or failed, create a new one.
	Server struct {
		cfg Config
		st  *store.Store

		// state is read lock-free; transitions go through CompareAndSwap.
		state atomic.Int32

		// mu guards the fields initialized during Start.
		mu       sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string // bound address with the resolved port

		ctx     context.Context
		cancel  context.CancelFunc
		wg      sync.WaitGroup
		readyCh chan struct{} // closed once the server accepts connections
		errCh   chan error    // buffered; fatal errors from background goroutines
		failErr error         // set when state reaches StateFailed

		logger *log.Logger
	}

	// Config holds immutable configuration for the query server.
	Config struct {
		// Address is the host:port to bind to (default: localhost:23234).
		// A port of 0 auto-selects a free port.
		Address BindAddress
		// HostKeyPath is the SSH host key location. Empty means an
		// ephemeral in-memory key, so clients see a new host identity
		// on every start.
		HostKeyPath string
		// SearchLimit caps the result page of a search command
		// (default: store.DefaultLimit).
		SearchLimit int
		// ShutdownTimeout bounds graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
		// StartupTimeout bounds the wait for readiness in Start (default: 5s).
		StartupTimeout time.Duration
	}
)

// String returns a human-readable representation of the server state.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Address:         defaultAddress,
		SearchLimit:     store.DefaultLimit,
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// Validate returns nil if the Config is usable, or an error wrapping
// ErrInvalidServeConfig collecting the field-level problems.
func (c Config) Validate() error {
	var fieldErrors []error

	if err := c.Address.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if c.SearchLimit < 0 {
		fieldErrors = append(fieldErrors, fmt.Errorf("search limit must not be negative, got %d", c.SearchLimit))
	}

	if len(fieldErrors) > 0 {
		return &InvalidServeConfigError{FieldErrors: fieldErrors}
	}
	return nil
}

// New creates a query server over st with zero Config fields defaulted.
// The server is not started; call Start to begin accepting connections.
func New(cfg Config, st *store.Store) *Server {
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	if cfg.SearchLimit == 0 {
		cfg.SearchLimit = store.DefaultLimit
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}

	s := &Server{
		cfg:     cfg,
		st:      st,
		readyCh: make(chan struct{}),
		errCh:   make(chan error, 1),
		logger:  logging.New("queryserve"),
	}
	s.state.Store(int32(StateCreated))

	return s
}

// Start brings the server up and blocks until it is ready to accept
// connections (nil), it failed to start (the failure), or the context or
// startup timeout expired. After a nil return, monitor Err() for runtime
// errors.
func (s *Server) Start(ctx context.Context) error {
	// A context cancelled before any setup must fail here, not race the
	// serve goroutine into StateRunning.
	select {
	case <-ctx.Done():
		s.fail(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return s.failErr
	default:
	}

	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start query server in state %s", ServerState(s.state.Load()))
	}

	if s.st == nil {
		s.fail(errors.New("query server requires a store"))
		return s.failErr
	}
	if err := s.cfg.Validate(); err != nil {
		s.fail(err)
		return s.failErr
	}

	// Lifecycle context; outlives ctx, which only scopes startup.
	s.ctx, s.cancel = context.WithCancel(context.Background())

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := string(s.cfg.Address)
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.fail(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.failErr
	}

	s.mu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(s.consoleMiddleware()),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	srv, err := wish.NewServer(opts...)
	if err != nil {
		_ = listener.Close()
		s.fail(fmt.Errorf("failed to create SSH server: %w", err))
		return s.failErr
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	s.wg.Add(1)
	go s.serve()

	select {
	case <-s.readyCh:
		s.logger.Info("query console started", "address", s.addr)
		return nil

	case err := <-s.errCh:
		s.fail(err)
		return err

	case <-startupCtx.Done():
		s.cancel()
		s.fail(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.failErr
	}
}

// Stop gracefully stops the query server, blocking until connections drain
// or the shutdown timeout passes. Safe to call multiple times.
func (s *Server) Stop() error {
	for {
		switch current := ServerState(s.state.Load()); current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			// Never started; nothing to drain.
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil
			}
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				return s.shutdown()
			}
		default:
			return fmt.Errorf("unknown server state: %d", current)
		}
		// Lost a CAS race; re-read the state and try again.
	}
}

// Err returns a channel that receives fatal server errors after a
// successful Start. The channel is closed when the server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// State returns the current server state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// Address returns the bound host:port, blocking until the server has
// started. It returns "" if the server never started or failed first.
func (s *Server) Address() string {
	ctx := s.ctx
	if ctx == nil {
		// Start never got far enough to bind.
		select {
		case <-s.readyCh:
		default:
			return ""
		}
	} else {
		select {
		case <-s.readyCh:
		case <-ctx.Done():
			return ""
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Port returns the listening port, blocking like Address. It returns 0 if
// the server never started or failed first.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// Wait blocks until the server stops and returns the failure error, if any.
func (s *Server) Wait() error {
	s.wg.Wait()

	if s.State() == StateFailed {
		return s.failErr
	}
	return nil
}

// serve signals readiness and blocks on the SSH accept loop.
func (s *Server) serve() {
	defer s.wg.Done()

	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.readyCh)
	}

	s.mu.Lock()
	srv := s.srv
	listener := s.listener
	s.mu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}

	select {
	case s.errCh <- fmt.Errorf("serve error: %w", err):
	default:
		s.logger.Error("query server error (channel full)", "error", err)
	}
}

// shutdown drains the server after Stop won the transition to StateStopping.
func (s *Server) shutdown() error {
	if s.cancel != nil {
		s.cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.mu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.state.Store(int32(StateStopped))
	s.logger.Info("query console stopped")

	close(s.errCh)

	return shutdownErr
}

// fail moves the server to StateFailed, records err, and wakes consumers.
func (s *Server) fail(err error) {
	s.failErr = err
	s.state.Store(int32(StateFailed))
	if s.cancel != nil {
		s.cancel()
	}
	select {
	case s.errCh <- err:
	default:
	}
}

// consoleMiddleware runs one read-only console per session. Exec commands
// and PTY requests are ignored; the session is a plain line protocol.
func (s *Server) consoleMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
			logger.Info("session opened")

			c := &console{store: s.st, limit: s.cfg.SearchLimit}
			if err := c.run(sess, sess); err != nil {
				logger.Debug("session ended with read error", "error", err)
			}

			logger.Info("session closed")
			_ = sess.Exit(0) //nolint:errcheck // Terminal operation; error non-critical
		}
	}
}

// isClosedConnError checks for the "use of closed network connection" error.
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error() == "use of closed network connection"
	}
	return false
}
