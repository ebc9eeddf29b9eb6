package automation

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/config"
	"github.com/devicelab-dev/uia2-bridge/pkg/device"
	"github.com/devicelab-dev/uia2-bridge/pkg/logger"
	"github.com/devicelab-dev/uia2-bridge/pkg/uiautomator2"
)

// Connect attaches to serial (empty picks the first device), makes sure the
// UIAutomator2 server is up, opens a session and applies the configured wait.
func Connect(serial string, cfg *config.Config) (*Device, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	dev, err := device.New(serial, cfg.ADBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("using device %s", dev.Serial())

	uiaCfg := device.DefaultUIAutomator2Config()
	uiaCfg.DevicePort = cfg.DevicePort
	uiaCfg.Timeout = cfg.StartupDuration()
	uiaCfg.APKDir = cfg.ResolveAPKDir()
	if err := dev.EnsureUIAutomator2(uiaCfg); err != nil {
		return nil, fmt.Errorf("start UIAutomator2: %w", err)
	}

	var client *uiautomator2.Client
	if socket := dev.SocketPath(); socket != "" {
		client = uiautomator2.NewClient(socket)
	} else {
		client = uiautomator2.NewClientTCP(dev.LocalPort())
	}
	client.SetLogWriter(logger.GetWriter())

	caps := uiautomator2.Capabilities{
		PlatformName: "Android",
		DeviceName:   dev.Serial(),
		UDID:         dev.Serial(),
	}
	if err := openSession(client, caps, cfg); err != nil {
		return nil, err
	}
	logger.Info("session %s ready (wait %s)", client.SessionID(), cfg.WaitDuration())

	return New(client, dev), nil
}

type waitConfigurer interface {
	SetImplicitWait(d time.Duration) error
	UpdateSettings(settings map[string]interface{}) error
}

type sessionOpener interface {
	waitConfigurer
	Status() (bool, error)
	CreateSession(caps uiautomator2.Capabilities) error
}

// openSession checks the server reports ready, then creates the session and
// configures its wait.
func openSession(c sessionOpener, caps uiautomator2.Capabilities, cfg *config.Config) error {
	ready, err := c.Status()
	if err != nil {
		return fmt.Errorf("server status: %w", err)
	}
	if !ready {
		return fmt.Errorf("UIAutomator2 server not ready")
	}
	if err := c.CreateSession(caps); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return configureWait(c, cfg)
}

// configureWait replaces the server's default element wait.
func configureWait(c waitConfigurer, cfg *config.Config) error {
	wait := cfg.WaitDuration()
	if err := c.SetImplicitWait(wait); err != nil {
		return fmt.Errorf("set implicit wait: %w", err)
	}
	if err := c.UpdateSettings(map[string]interface{}{
		"waitForSelectorTimeout": wait.Milliseconds(),
	}); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
