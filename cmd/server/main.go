package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"

	"github.com/Tyrowin/roomchat/internal/server"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roomchat server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	config, err := server.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	logger.Info("Starting roomchat server...")

	srv, err := server.New(config, server.WithLogger(logger))
	if err != nil {
		return exitConfig, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	listener, err := net.Listen("tcp", config.TCPAddr)
	if err != nil {
		_ = srv.Shutdown(config.ShutdownTimeout)
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.TCPAddr, err)
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, server.ErrServerClosed) {
			errChan <- fmt.Errorf("tcp listener error: %w", err)
		}
	}()

	httpServer := server.CreateServer(config.HTTPAddr, server.SetupRoutes(srv))
	if config.HTTPEnabled {
		go func() {
			if err := server.StartServer(httpServer, logger); err != nil {
				errChan <- fmt.Errorf("http server error: %w", err)
			}
		}()
	}

	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	logger.Info("Shutting down gracefully...")
	if err := srv.Close(); err != nil {
		logger.Warn("Error closing listeners", "error", err)
	}
	if config.HTTPEnabled {
		_ = server.ShutdownServer(httpServer, config.ShutdownTimeout, logger)
	}
	if err := srv.Shutdown(config.ShutdownTimeout); err != nil {
		logger.Warn("Server shutdown incomplete", "error", err)
	}
	logger.Info("Program stopped cleanly")

	return code, runErr
}
