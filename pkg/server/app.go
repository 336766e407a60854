package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TradeRelay/internal/service/stream"
	"TradeRelay/internal/usecase"
	"TradeRelay/pkg/config"
	xhttp "TradeRelay/pkg/http"
	pkgkafka "TradeRelay/pkg/kafka"
	applogger "TradeRelay/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	emitter     *usecase.EventEmitter
	hub         *stream.Hub
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	emitter *usecase.EventEmitter,
	hub *stream.Hub,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		consumer: consumer,
		kh:       kh,
		emitter:  emitter,
		hub:      hub,
	}
}

// SetHTTPHandler allows DI to inject the HTTP handler set.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start consumer if configured (kafka backend only)
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("webhook receiver listening", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	// Shutdown HTTP server first so no new alerts arrive
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			l.Error("http shutdown error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Disconnect live dashboard clients
	if a.hub != nil {
		a.hub.Close()
	}

	// Flush pending aggregated logs while the producer is still open. The
	// collector publishes through it, so this must precede emitter.Close.
	l.RemoveCollector()

	// Close event emitter resources (publisher)
	if a.emitter != nil {
		a.emitter.Close()
	}

	l.Info("shutdown complete")
	return nil
}
