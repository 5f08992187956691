// Command httpd runs the HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/globalpulse/internal/bootstrap"
	"github.com/jonesrussell/globalpulse/internal/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "httpd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app, err := bootstrap.NewApp(bootstrap.ConfigPath())
	if err != nil {
		return err
	}
	defer app.Close()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.Server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		return err
	case sig := <-shutdown:
		app.Logger.Info("Shutdown signal received", logging.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = app.Server.Shutdown(ctx); err != nil {
			return err
		}
		app.Logger.Info("Server stopped gracefully")
	}

	return nil
}
