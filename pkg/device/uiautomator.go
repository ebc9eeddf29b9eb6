package device

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// UIAutomator2 server packages.
const (
	UIAutomator2Server = "io.appium.uiautomator2.server"
	UIAutomator2Test   = "io.appium.uiautomator2.server.test"
)

const (
	instrumentationRunner = "androidx.test.runner.AndroidJUnitRunner"
	healthTimeout         = 2 * time.Second
	readyPollInterval     = 500 * time.Millisecond
)

// serverAPKs lists the two server packages and the file names they ship under.
var serverAPKs = []struct {
	pkg     string
	pattern string
}{
	{UIAutomator2Server, "appium-uiautomator2-server-v*.apk"},
	{UIAutomator2Test, "appium-uiautomator2-server-debug-androidTest.apk"},
}

// UIAutomator2Config holds configuration for the UIAutomator2 server.
type UIAutomator2Config struct {
	SocketPath string        // Unix socket path (Linux/Mac only, default: /tmp/uia2-<serial>.sock)
	LocalPort  int           // TCP port (Windows only, default: any free port)
	DevicePort int           // Port on device (default: 6790)
	Timeout    time.Duration // Startup timeout (default: 30s)
	APKDir     string        // Directory with server APKs, installed when missing (optional)
}

// DefaultUIAutomator2Config returns default configuration.
func DefaultUIAutomator2Config() UIAutomator2Config {
	return UIAutomator2Config{
		DevicePort: 6790,
		Timeout:    30 * time.Second,
	}
}

// EnsureUIAutomator2 forwards the server port and starts the server unless one
// is already answering on it.
func (d *AndroidDevice) EnsureUIAutomator2(cfg UIAutomator2Config) error {
	if err := d.forward(cfg); err != nil {
		return err
	}
	if d.IsUIAutomator2Running() {
		return nil
	}
	return d.StartUIAutomator2(cfg)
}

// StartUIAutomator2 (re)starts the server and waits until /status answers.
func (d *AndroidDevice) StartUIAutomator2(cfg UIAutomator2Config) error {
	if cfg.APKDir != "" {
		if err := d.InstallUIAutomator2(cfg.APKDir); err != nil {
			return err
		}
	}
	for _, apk := range serverAPKs {
		if !d.IsInstalled(apk.pkg) {
			return fmt.Errorf("UIAutomator2 package %s not installed (set apkDir to install it)", apk.pkg)
		}
	}

	d.StopUIAutomator2()
	if err := d.forward(cfg); err != nil {
		return err
	}

	if _, err := d.Shell(instrumentCommand()); err != nil {
		return fmt.Errorf("failed to start instrumentation: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := d.waitReady(ctx); err != nil {
		d.StopUIAutomator2()
		return fmt.Errorf("UIAutomator2 server not ready after %v", cfg.Timeout)
	}
	return nil
}

// instrumentCommand runs the test APK detached so the adb shell returns at once.
func instrumentCommand() string {
	return fmt.Sprintf("nohup am instrument -w -e disableAnalytics true %s/%s > /dev/null 2>&1 &",
		UIAutomator2Test, instrumentationRunner)
}

// forward exposes the device port on this host: a Unix socket, or a TCP port
// on Windows. An existing forward is reused.
func (d *AndroidDevice) forward(cfg UIAutomator2Config) error {
	if runtime.GOOS == "windows" {
		if d.localPort != 0 {
			return nil
		}
		port := cfg.LocalPort
		if port == 0 {
			p, err := freePort()
			if err != nil {
				return err
			}
			port = p
		}
		if err := d.Forward(port, cfg.DevicePort); err != nil {
			return fmt.Errorf("port forward failed: %w", err)
		}
		d.localPort = port
		return nil
	}

	path := cfg.SocketPath
	if path == "" {
		path = d.DefaultSocketPath()
	}
	if d.socketPath == path {
		return nil
	}
	// adb cannot bind over a stale socket file.
	os.Remove(path)
	if err := d.ForwardSocket(path, cfg.DevicePort); err != nil {
		return fmt.Errorf("socket forward failed: %w", err)
	}
	d.socketPath = path
	return nil
}

func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("no free local port: %w", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// StopUIAutomator2 stops the server and removes its forwards.
func (d *AndroidDevice) StopUIAutomator2() {
	d.Shell("am force-stop " + UIAutomator2Server)
	d.Shell("am force-stop " + UIAutomator2Test)
	time.Sleep(300 * time.Millisecond)

	if d.socketPath != "" {
		d.RemoveSocketForward(d.socketPath)
		os.Remove(d.socketPath)
		d.socketPath = ""
	}
	if d.localPort != 0 {
		d.RemoveForward(d.localPort)
		d.localPort = 0
	}
}

// IsUIAutomator2Running reports whether the forwarded server answers /status.
func (d *AndroidDevice) IsUIAutomator2Running() bool {
	client, url, ok := d.statusEndpoint()
	if !ok {
		return false
	}
	defer client.CloseIdleConnections()
	return statusOK(client, url)
}

func (d *AndroidDevice) statusEndpoint() (*http.Client, string, bool) {
	switch {
	case d.socketPath != "":
		socket := d.socketPath
		transport := &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var dialer net.Dialer
				return dialer.DialContext(ctx, "unix", socket)
			},
		}
		return &http.Client{Transport: transport, Timeout: healthTimeout}, "http://localhost/status", true
	case d.localPort != 0:
		return &http.Client{Timeout: healthTimeout}, fmt.Sprintf("http://127.0.0.1:%d/status", d.localPort), true
	default:
		return nil, "", false
	}
}

func (d *AndroidDevice) waitReady(ctx context.Context) error {
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	for {
		if d.IsUIAutomator2Running() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// statusOK reports whether GET url answers 200.
func statusOK(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// InstallUIAutomator2 installs missing server packages from apksDir.
func (d *AndroidDevice) InstallUIAutomator2(apksDir string) error {
	for _, apk := range serverAPKs {
		if d.IsInstalled(apk.pkg) {
			continue
		}
		path, err := findAPK(apksDir, apk.pattern)
		if err != nil {
			return fmt.Errorf("failed to find APK for %s: %w", apk.pkg, err)
		}
		if err := d.Install(path); err != nil {
			return fmt.Errorf("failed to install %s: %w", apk.pkg, err)
		}
	}
	return nil
}

// findAPK returns the lexically greatest match when several versions are present.
func findAPK(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no APK found matching %s", pattern)
	}
	return matches[len(matches)-1], nil
}
