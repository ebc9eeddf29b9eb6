// Package automation is the device-automation backend: one Android device driven
// through the UIAutomator2 server, with ADB for what the server does not cover.
package automation

import (
	"fmt"
	"math"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/device"
	"github.com/devicelab-dev/uia2-bridge/pkg/uiautomator2"
)

// UIA2Client defines the UIAutomator2 operations the backend needs.
// Implemented by uiautomator2.Client.
type UIA2Client interface {
	// Element finding
	FindElement(strategy, selector string) (*uiautomator2.Element, error)
	FindElements(strategy, selector string) ([]*uiautomator2.Element, error)
	ActiveElement() (*uiautomator2.Element, error)

	// Gestures
	Click(x, y int) error
	DoubleClick(x, y int) error
	LongClick(x, y, durationMs int) error
	LongClickElement(elementID string, durationMs int) error
	SwipeInArea(area uiautomator2.RectModel, direction string, percent float64, speed int) error
	Drag(startX, startY, endX, endY, speed int) error

	// Device state
	PressKeyCode(keyCode int) error
	Screenshot() ([]byte, error)
	Source() (string, error)
	GetDeviceInfo() (*uiautomator2.DeviceInfo, error)
	WindowSize() (*uiautomator2.WindowSize, error)

	// Session
	HasSession() bool
	DeleteSession() error
}

// ADB defines the shell-level operations the backend needs.
// Implemented by device.AndroidDevice.
type ADB interface {
	Serial() string
	Prop(name string) (string, error)
	CurrentApp() (string, string, error)
	StartApp(pkg, activity string, stop, useMonkey bool) error
	StopApp(pkg string) error
	UserPackages() ([]string, error)
	AppInfo(pkg string) (*device.AppInfo, error)
	ScreenOn() error
	ScreenOff() error
	IsScreenOn() (bool, error)
	Swipe(x1, y1, x2, y2, durationMs int) error
	WlanIP() (string, error)
}

// Device is one connected Android device.
type Device struct {
	client UIA2Client
	adb    ADB

	pollInterval time.Duration // element_click retry interval
}

// New creates a Device from a UIAutomator2 client and an ADB handle.
func New(client UIA2Client, adb ADB) *Device {
	return &Device{
		client:       client,
		adb:          adb,
		pollInterval: 500 * time.Millisecond,
	}
}

// Close ends the server session. The UIAutomator2 server itself keeps running.
func (d *Device) Close() error {
	if !d.client.HasSession() {
		return nil
	}
	if err := d.client.DeleteSession(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// displaySize asks the server every time so rotation is picked up.
func (d *Device) displaySize() (int, int, error) {
	size, err := d.client.WindowSize()
	if err != nil {
		return 0, 0, fmt.Errorf("window size: %w", err)
	}
	return size.Width, size.Height, nil
}

// absolute converts a point to pixels. A coordinate strictly between 0 and 1 is a
// fraction of the screen; anything else is already in pixels.
func (d *Device) absolute(x, y float64) (int, int, error) {
	if isFraction(x) || isFraction(y) {
		w, h, err := d.displaySize()
		if err != nil {
			return 0, 0, err
		}
		if isFraction(x) {
			x *= float64(w)
		}
		if isFraction(y) {
			y *= float64(h)
		}
	}
	px, err := toPixel(x)
	if err != nil {
		return 0, 0, err
	}
	py, err := toPixel(y)
	if err != nil {
		return 0, 0, err
	}
	return px, py, nil
}

func isFraction(v float64) bool {
	return v > 0 && v < 1
}

// toPixel rounds v, refusing values no screen coordinate can take.
func toPixel(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("coordinate out of range: %v", v)
	}
	return int(math.Round(v)), nil
}

func millis(d time.Duration) int {
	return int(d / time.Millisecond)
}
