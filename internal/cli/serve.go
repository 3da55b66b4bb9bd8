package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/accounts"
	"github.com/swaglabs/storefront-e2e/internal/config"
	"github.com/swaglabs/storefront-e2e/internal/handlers"
)

// ServerDependencies holds all dependencies needed for the replica storefront
type ServerDependencies struct {
	ServerConfig  config.ServerConfig
	Log           logrus.FieldLogger
	Pages         map[string]http.Handler
	LoginHandler  http.Handler
	StaticHandler http.Handler
}

// BuildServerDependencies wires the storefront handlers for the given catalog and products
func BuildServerDependencies(cfg config.ServerConfig, catalog *accounts.Catalog, products []handlers.Product, glitchDelay time.Duration, log logrus.FieldLogger) (ServerDependencies, error) {
	deps := ServerDependencies{
		ServerConfig:  cfg,
		Log:           log,
		Pages:         make(map[string]http.Handler),
		LoginHandler:  handlers.NewLoginHandler(catalog, glitchDelay, log),
		StaticHandler: handlers.StaticHandler(products),
	}

	for _, path := range handlers.Paths() {
		page, err := handlers.NewPageHandler(path, products, catalog)
		if err != nil {
			return deps, fmt.Errorf("failed to create page handler: %w", err)
		}
		deps.Pages[path] = page
	}

	return deps, nil
}

// NewMux routes every storefront screen, the login API and the static assets
func NewMux(deps ServerDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	for path, page := range deps.Pages {
		if path == "/" {
			mux.Handle("/{$}", page)
			continue
		}
		mux.Handle(path, page)
	}
	mux.Handle("/api/login", deps.LoginHandler)
	mux.Handle("/static/", deps.StaticHandler)
	return mux
}

// RunServe starts the replica storefront and blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.logger())
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	log := deps.logger()

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           NewMux(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", listener.Addr().String()).Info("Storefront listening")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server error")
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown is nil, a channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, log logrus.FieldLogger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, log)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, log logrus.FieldLogger) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.WithField("signal", sig.String()).Info("Shutting down storefront")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not surface listener close errors
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("Storefront stopped")
	return nil
}

func (d ServerDependencies) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}
