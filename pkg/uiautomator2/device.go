package uiautomator2

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PressKeyCode sends a key event.
func (c *Client) PressKeyCode(keyCode int) error {
	return c.value("POST", c.sessionPath("/appium/device/press_keycode"), KeyCodeRequest{KeyCode: keyCode}, nil)
}

// Screenshot captures the screen as PNG bytes.
func (c *Client) Screenshot() ([]byte, error) {
	var b64 interface{}
	if err := c.value("GET", c.sessionPath("/screenshot"), nil, &b64); err != nil {
		return nil, err
	}

	s, ok := b64.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected screenshot response")
	}
	return decodeBase64(s)
}

// Source returns the UI hierarchy as XML.
func (c *Client) Source() (string, error) {
	var source string
	if err := c.value("GET", c.sessionPath("/source"), nil, &source); err != nil {
		return "", err
	}
	return source, nil
}

// GetDeviceInfo returns device properties reported by the server.
func (c *Client) GetDeviceInfo() (*DeviceInfo, error) {
	var info DeviceInfo
	if err := c.value("GET", c.sessionPath("/appium/device/info"), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// WindowSize returns the current window size in pixels.
func (c *Client) WindowSize() (*WindowSize, error) {
	var size WindowSize
	if err := c.value("GET", c.sessionPath("/window/current/size"), nil, &size); err != nil {
		return nil, err
	}
	return &size, nil
}

// decodeBase64 tolerates line breaks some server versions put in long payloads.
func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}
