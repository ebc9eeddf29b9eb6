// Package cli provides the command-line interface for uia2-bridge.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uia2-bridge/pkg/config"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file",
		EnvVars: []string{"UIA2_BRIDGE_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Log file path (overrides logFile from the config)",
		EnvVars: []string{"UIA2_BRIDGE_LOG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Log every command at debug level",
		EnvVars: []string{"UIA2_BRIDGE_VERBOSE"},
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "uia2-bridge",
		Usage:   "JSON-lines bridge to an Android device over UIAutomator2",
		Version: Version,
		Description: `uia2-bridge reads one JSON command per line on stdin and writes one
JSON result per line on stdout. Logs go to a file, never to stdout.

Examples:
  echo '{"action":"get_device_info","args":{"deviceSerial":"emulator-5554"}}' | uia2-bridge
  uia2-bridge --config bridge.yaml --verbose
  uia2-bridge devices`,
		Flags:  GlobalFlags,
		Action: runBridge,
		Commands: []*cli.Command{
			devicesCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given, else the defaults, and applies --log-file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if logFile := c.String("log-file"); logFile != "" {
		cfg.LogFile = logFile
	}
	return cfg, nil
}
