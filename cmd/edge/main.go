// Package main provides the entry point for the edge process, which
// runs next to the console's audio interface: it meters the capture
// stream, publishes level telemetry, keeps the console's push
// subscription alive and relays fader commands from the bus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/soundcrew/x32-automix/internal/app"
	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/config"
	"github.com/soundcrew/x32-automix/internal/console"
	"github.com/soundcrew/x32-automix/internal/edge"
	"github.com/soundcrew/x32-automix/internal/infrastructure"
	pkginfra "github.com/soundcrew/x32-automix/pkg/infrastructure"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	application := app.New(
		// Core modules
		config.Module,
		infrastructure.LoggerModule,

		// External service modules
		bus.Module,
		console.Module,

		// Application modules
		edge.Module,

		fx.Supply(configPath),
		fx.Supply(bus.Role("edge")),

		// Route Fx's own events through the Zap logger
		fx.WithLogger(pkginfra.NewFxLoggerAdapter),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go application.Run()

	sig := <-sigCh
	fmt.Printf("Received signal: %s, initiating shutdown.\n", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := application.Stop(shutdownCtx)
	cancel()

	if err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}
