package bootstrap

import (
	"context"
	"fmt"

	"go-panopticon/internal/config"
	"go-panopticon/internal/logging"
)

type Bootstrap struct {
	Config      *config.Config
	Components  *Components
	configPath  string
	initialized bool
}

func New(configPath string) *Bootstrap {
	return &Bootstrap{
		configPath:  configPath,
		initialized: false,
	}
}

// Initialize loads configuration, starts the operator logger and builds
// every component. A configuration error is returned unwrapped from Load so
// the caller can print it before any logger exists.
func (b *Bootstrap) Initialize() error {
	if err := b.loadConfig(); err != nil {
		return err
	}

	if err := b.initializeLogging(); err != nil {
		return fmt.Errorf("logging init failed: %w", err)
	}

	if err := b.wireComponents(); err != nil {
		return fmt.Errorf("component wiring failed: %w", err)
	}

	b.initialized = true
	logging.Info("Bootstrap complete, recording to %s, agent log %s", b.Config.LogDir, logging.CurrentFile())
	return nil
}

func (b *Bootstrap) loadConfig() error {
	cfg, err := config.Load(b.configPath)
	if err != nil {
		return err
	}
	b.Config = cfg
	return nil
}

func (b *Bootstrap) initializeLogging() error {
	return logging.InitGlobalLogger(b.Config.LogLevel(), b.Config.Agent.LogFile, b.Config.Agent.LogMaxAge)
}

func (b *Bootstrap) wireComponents() error {
	return Wire(b)
}

// Start connects to the gateway. ctx bounds the lifetime of the background
// loops and of handlers waiting on a full queue.
func (b *Bootstrap) Start(ctx context.Context) error {
	if !b.initialized {
		return fmt.Errorf("bootstrap not initialized")
	}

	return StartAll(ctx, b.Components)
}

func (b *Bootstrap) Shutdown() error {
	if b.Components == nil {
		return nil
	}
	err := Shutdown(b.Components)

	if l := logging.Global(); l != nil {
		logging.SetGlobalLogger(nil)
		if cerr := l.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
