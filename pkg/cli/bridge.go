package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uia2-bridge/pkg/automation"
	"github.com/devicelab-dev/uia2-bridge/pkg/bridge"
	"github.com/devicelab-dev/uia2-bridge/pkg/config"
	"github.com/devicelab-dev/uia2-bridge/pkg/logger"
	"github.com/devicelab-dev/uia2-bridge/pkg/session"
)

// connectDevice opens the real backend. Replaced in tests.
var connectDevice = func(serial string, cfg *config.Config) (session.Backend, error) {
	dev, err := automation.Connect(serial, cfg)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func runBridge(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogFile); err != nil {
		return err
	}
	defer logger.Close()
	logger.SetVerbose(c.Bool("verbose"))

	logger.Info("=== uia2-bridge %s started ===", Version)
	defer logger.Info("=== uia2-bridge stopped ===")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}

	loop := bridge.New(func(serial string) (session.Backend, error) {
		return connectDevice(serial, cfg)
	})
	defer loop.Close()

	err = loop.Run(ctx, in, out)
	if ctx.Err() != nil && c.Context.Err() == nil {
		logger.Info("signal received, shutting down")
	}
	return err
}
