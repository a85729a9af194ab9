// Package server runs the process's long-lived services and shuts them
// down together.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is a long-running component. Start blocks until the service
// stops; Stop makes a running Start return.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn.
func (f *FuncService) Stop() { f.StopFn() }

type namedService struct {
	name    string
	service Service
}

// Lifecycle starts services concurrently and stops them in reverse
// registration order.
type Lifecycle struct {
	logger   *zap.Logger
	mu       sync.Mutex
	services []namedService
	signals  []os.Signal
}

// NewLifecycle creates a Lifecycle that shuts down on SIGINT or SIGTERM.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger, signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM}}
}

// Add registers svc under name.
//
// Precondition: Run has not been called.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until ctx is cancelled, a signal
// arrives or a service fails. All services are stopped before it returns.
//
// Postcondition: Returns the first service error, or nil on a clean shutdown.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stopSignals := signal.NotifyContext(ctx, l.signals...)
	defer stopSignals()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, ns := range services {
		g.Go(func() error {
			l.logger.Info("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed", zap.String("service", ns.name), zap.Error(err))
				return fmt.Errorf("service %s: %w", ns.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(gctx)))
		l.stopAll(services)
		return nil
	})

	err := g.Wait()
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return err
}

func (l *Lifecycle) stopAll(services []namedService) {
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		began := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(began)),
		)
	}
}
