// Package session holds the single device connection and exposes the bridge's
// operation catalogue as calls returning a Result envelope.
package session

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/automation"
	"github.com/devicelab-dev/uia2-bridge/pkg/logger"
)

// Backend is the device-automation library the session forwards to.
// Implemented by automation.Device.
type Backend interface {
	Info() (*automation.Info, error)
	WindowSize() (int, int, error)
	CurrentApp() (*automation.App, error)
	DumpHierarchy() (string, error)

	Click(x, y float64) error
	DoubleClick(x, y float64, interval time.Duration) error
	LongClick(x, y float64, duration time.Duration) error
	Swipe(fx, fy, tx, ty float64, duration time.Duration) error
	SwipeExt(direction string, scale float64, box []float64) error
	Drag(sx, sy, ex, ey float64, duration time.Duration) error
	Press(key string) error

	SendKeys(text string, clear bool) error
	ClearText() error
	Find(selector string) (map[string]interface{}, bool, error)
	ElementClick(selector string, timeout time.Duration) error
	ElementLongClick(selector string, duration time.Duration) error
	XPathClick(query string) error
	XPathSetText(query, text string) error
	XPathText(query string) (string, error)
	XPathInfo(query string) (map[string]interface{}, error)

	Screenshot() ([]byte, error)
	ScreenshotJPEG() ([]byte, error)
	SaveScreenshot(filename string) error
	ScreenOn() error
	ScreenOff() error
	Unlock() error

	AppStart(pkg, activity string, stop, useMonkey bool) error
	AppStop(pkg string) error
	UserApps() ([]string, error)
	AppName(pkg string) (string, error)

	Close() error
}

// ConnectFunc opens a backend for a device serial; "" means any attached device.
type ConnectFunc func(serial string) (Backend, error)

// Session is one connection to one device. It never reconnects.
type Session struct {
	backend   Backend
	connected bool
	lastError string
}

// New connects through connect. A failed connection is recorded, not returned:
// the session then answers every operation with ErrNotConnected.
func New(connect ConnectFunc, serial string) *Session {
	s := &Session{}

	backend, err := safeConnect(connect, serial)
	if err != nil {
		s.lastError = err.Error()
		logger.Error("connect %q: %v", serial, err)
		return s
	}

	s.backend = backend
	s.connected = true
	return s
}

func safeConnect(connect ConnectFunc, serial string) (b Backend, err error) {
	defer func() {
		if p := recover(); p != nil {
			b, err = nil, fmt.Errorf("%v", p)
		}
	}()
	b, err = connect(serial)
	if err == nil && b == nil {
		err = fmt.Errorf("no backend returned")
	}
	return b, err
}

// Connected reports whether the connection succeeded.
func (s *Session) Connected() bool {
	return s.connected
}

// LastError returns the connection error, if any.
func (s *Session) LastError() string {
	return s.lastError
}

// Close ends the device session. Later operations report ErrNotConnected.
func (s *Session) Close() (err error) {
	if !s.connected {
		return nil
	}
	s.connected = false
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	return s.backend.Close()
}

// call guards fn with the connection check and turns a backend panic into an
// error envelope.
func (s *Session) call(fn func() Result) (r Result) {
	if !s.connected {
		return Failure(ErrNotConnected)
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("backend panic: %v", p)
			r = Failure(fmt.Sprint(p))
		}
	}()
	return fn()
}

func fail(err error) Result {
	return Failure(err.Error())
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
