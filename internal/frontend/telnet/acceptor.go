package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// SessionHandler runs the command loop for one connected client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor accepts Telnet clients and hands each one to a SessionHandler
// on its own goroutine.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	active   map[net.Conn]struct{}
	stopped  bool
}

// NewAcceptor creates an Acceptor.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready for ListenAndServe or Serve.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		active:  make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (a *Acceptor) ListenAndServe() error {
	lis, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(lis)
}

// Serve accepts connections on lis until Stop is called.
//
// Postcondition: Returns nil after Stop, or the first non-shutdown accept error.
func (a *Acceptor) Serve(lis net.Listener) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		_ = lis.Close()
		return nil
	}
	a.listener = lis
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening", zap.String("addr", lis.Addr().String()))

	for {
		raw, err := lis.Accept()
		if err != nil {
			if a.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting telnet connection: %w", err)
		}
		if !a.track(raw) {
			_ = raw.Close()
			return nil
		}
		a.wg.Add(1)
		go a.serveConn(raw)
	}
}

func (a *Acceptor) track(raw net.Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return false
	}
	a.active[raw] = struct{}{}
	return true
}

func (a *Acceptor) untrack(raw net.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.active, raw)
}

func (a *Acceptor) serveConn(raw net.Conn) {
	defer a.wg.Done()
	defer a.untrack(raw)

	start := time.Now()
	remote := raw.RemoteAddr().String()
	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	a.logger.Info("telnet client connected", zap.String("remote_addr", remote))
	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote_addr", remote), zap.Error(err))
		return
	}

	err := a.handler.HandleSession(a.ctx, conn)
	a.logger.Info("telnet session ended",
		zap.String("remote_addr", remote),
		zap.Duration("duration", time.Since(start)),
		zap.NamedError("reason", err),
	)
}

// Stop closes the listener and every open connection, then waits for
// all session goroutines to exit. It is safe to call more than once.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	a.cancel()
	if a.listener != nil {
		_ = a.listener.Close()
	}
	for raw := range a.active {
		_ = raw.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped")
}

// Addr returns the listening address, or "" before Serve starts.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Active returns the number of open sessions.
func (a *Acceptor) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.active)
}
