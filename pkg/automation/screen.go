package automation

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	jpegQuality = 90
	unlockSwipe = 300 * time.Millisecond
)

// Screenshot returns the screen as PNG.
func (d *Device) Screenshot() ([]byte, error) {
	return d.client.Screenshot()
}

// ScreenshotJPEG returns the screen as JPEG.
func (d *Device) ScreenshotJPEG() ([]byte, error) {
	data, err := d.client.Screenshot()
	if err != nil {
		return nil, err
	}
	return pngToJPEG(data)
}

// SaveScreenshot writes the screen to filename, as JPEG for .jpg/.jpeg and PNG otherwise.
func (d *Device) SaveScreenshot(filename string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		data, err = d.ScreenshotJPEG()
	default:
		data, err = d.Screenshot()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func pngToJPEG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ScreenOn wakes the display.
func (d *Device) ScreenOn() error {
	return d.adb.ScreenOn()
}

// ScreenOff turns the display off.
func (d *Device) ScreenOff() error {
	return d.adb.ScreenOff()
}

// Unlock wakes the display and swipes the keyguard away. Secure lock screens
// still need their credential.
func (d *Device) Unlock() error {
	if err := d.adb.ScreenOn(); err != nil {
		return err
	}
	return d.Swipe(0.1, 0.9, 0.9, 0.1, unlockSwipe)
}
