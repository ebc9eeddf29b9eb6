package device

import (
	"fmt"
	"strings"
)

// Android key events used outside the UIAutomator2 session.
const (
	keyEventSleep  = 223
	keyEventWakeup = 224
)

// Prop reads a system property.
func (d *AndroidDevice) Prop(name string) (string, error) {
	out, err := d.Shell("getprop " + shellQuote(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// KeyEvent injects a key event through `input keyevent`.
func (d *AndroidDevice) KeyEvent(code int) error {
	_, err := d.Shell(fmt.Sprintf("input keyevent %d", code))
	return err
}

// ScreenOn wakes the display.
func (d *AndroidDevice) ScreenOn() error {
	return d.KeyEvent(keyEventWakeup)
}

// ScreenOff puts the display to sleep.
func (d *AndroidDevice) ScreenOff() error {
	return d.KeyEvent(keyEventSleep)
}

// IsScreenOn reports whether the display is awake.
func (d *AndroidDevice) IsScreenOn() (bool, error) {
	out, err := d.Shell("dumpsys power")
	if err != nil {
		return false, err
	}
	on, ok := parseScreenOn(out)
	if !ok {
		return false, fmt.Errorf("screen state not reported by dumpsys power")
	}
	return on, nil
}

// Swipe drags a finger in a straight line over durationMs.
func (d *AndroidDevice) Swipe(x1, y1, x2, y2, durationMs int) error {
	_, err := d.Shell(fmt.Sprintf("input swipe %d %d %d %d %d", x1, y1, x2, y2, durationMs))
	return err
}

// WlanIP returns the device's Wi-Fi IPv4 address.
func (d *AndroidDevice) WlanIP() (string, error) {
	if out, err := d.Shell("ip route"); err == nil {
		if ip := parseRouteSource(out); ip != "" {
			return ip, nil
		}
	}

	out, err := d.Shell("ip addr show wlan0")
	if err != nil {
		return "", err
	}
	if ip := parseInetAddr(out); ip != "" {
		return ip, nil
	}
	return "", fmt.Errorf("no wlan address")
}

// parseScreenOn understands both the modern mWakefulness field and older mScreenOn.
func parseScreenOn(out string) (bool, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "mWakefulness="); ok {
			return v == "Awake", true
		}
		if v, ok := strings.CutPrefix(line, "mScreenOn="); ok {
			return v == "true", true
		}
		if v, ok := strings.CutPrefix(line, "Display Power: state="); ok {
			return v == "ON", true
		}
	}
	return false, false
}

// parseRouteSource returns the "src" address of the wlan0 route from `ip route`.
func parseRouteSource(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "wlan") {
			continue
		}
		parts := strings.Fields(line)
		for i, part := range parts {
			if part == "src" && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	return ""
}

// parseInetAddr returns the first IPv4 address from `ip addr show`.
func parseInetAddr(out string) string {
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) >= 2 && parts[0] == "inet" {
			return strings.Split(parts[1], "/")[0]
		}
	}
	return ""
}
