package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-panopticon/internal/bootstrap"
	"go-panopticon/internal/config"
	"go-panopticon/internal/logging"
)

func main() {
	b := bootstrap.New(config.PathFromEnv())

	if err := b.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "panopticon: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		logging.Critical("Startup failed: %v", err)
		_ = b.Shutdown()
		os.Exit(1)
	}

	<-ctx.Done()
	fmt.Println("\nShutdown signal received")

	if err := b.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "panopticon: shutdown: %v\n", err)
		os.Exit(1)
	}
}
