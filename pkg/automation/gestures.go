package automation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/uiautomator2"
)

// Click taps a point.
func (d *Device) Click(x, y float64) error {
	px, py, err := d.absolute(x, y)
	if err != nil {
		return err
	}
	return d.client.Click(px, py)
}

// DoubleClick taps a point twice, interval apart. A zero interval uses the
// server's own double-tap gesture.
func (d *Device) DoubleClick(x, y float64, interval time.Duration) error {
	px, py, err := d.absolute(x, y)
	if err != nil {
		return err
	}
	if interval <= 0 {
		return d.client.DoubleClick(px, py)
	}
	if err := d.client.Click(px, py); err != nil {
		return err
	}
	time.Sleep(interval)
	return d.client.Click(px, py)
}

// LongClick presses a point for duration.
func (d *Device) LongClick(x, y float64, duration time.Duration) error {
	px, py, err := d.absolute(x, y)
	if err != nil {
		return err
	}
	return d.client.LongClick(px, py, millis(duration))
}

// Swipe drags a finger between two points through `input swipe`.
func (d *Device) Swipe(fx, fy, tx, ty float64, duration time.Duration) error {
	x1, y1, err := d.absolute(fx, fy)
	if err != nil {
		return err
	}
	x2, y2, err := d.absolute(tx, ty)
	if err != nil {
		return err
	}
	return d.adb.Swipe(x1, y1, x2, y2, millis(duration))
}

// SwipeExt swipes in direction across scale of box. An empty box is the whole
// screen; otherwise it is [left, top, right, bottom].
func (d *Device) SwipeExt(direction string, scale float64, box []float64) error {
	dir, err := mapDirection(direction)
	if err != nil {
		return err
	}
	if scale <= 0 || scale > 1 {
		return fmt.Errorf("scale must be in (0, 1], got %v", scale)
	}

	area, err := d.swipeArea(box)
	if err != nil {
		return err
	}
	return d.client.SwipeInArea(area, dir, scale, 0)
}

func (d *Device) swipeArea(box []float64) (uiautomator2.RectModel, error) {
	if len(box) == 0 {
		w, h, err := d.displaySize()
		if err != nil {
			return uiautomator2.RectModel{}, err
		}
		return uiautomator2.NewRect(0, 0, w, h), nil
	}
	if len(box) != 4 {
		return uiautomator2.RectModel{}, fmt.Errorf("box must have 4 values [left, top, right, bottom], got %d", len(box))
	}

	left, top, err := d.absolute(box[0], box[1])
	if err != nil {
		return uiautomator2.RectModel{}, err
	}
	right, bottom, err := d.absolute(box[2], box[3])
	if err != nil {
		return uiautomator2.RectModel{}, err
	}
	if right <= left || bottom <= top {
		return uiautomator2.RectModel{}, fmt.Errorf("empty box [%d, %d, %d, %d]", left, top, right, bottom)
	}
	return uiautomator2.NewRect(left, top, right-left, bottom-top), nil
}

// Drag presses at the start point and moves to the end point over duration.
func (d *Device) Drag(sx, sy, ex, ey float64, duration time.Duration) error {
	x1, y1, err := d.absolute(sx, sy)
	if err != nil {
		return err
	}
	x2, y2, err := d.absolute(ex, ey)
	if err != nil {
		return err
	}
	return d.client.Drag(x1, y1, x2, y2, dragSpeed(x1, y1, x2, y2, duration))
}

// dragSpeed converts a duration to the pixels-per-second speed the server expects.
// Zero lets the server pick its default.
func dragSpeed(x1, y1, x2, y2 int, duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	dist := math.Hypot(float64(x2-x1), float64(y2-y1))
	speed := int(math.Round(dist / duration.Seconds()))
	if speed < 1 {
		speed = 1
	}
	return speed
}

func mapDirection(dir string) (string, error) {
	switch strings.ToLower(dir) {
	case "up":
		return uiautomator2.DirectionUp, nil
	case "down":
		return uiautomator2.DirectionDown, nil
	case "left":
		return uiautomator2.DirectionLeft, nil
	case "right":
		return uiautomator2.DirectionRight, nil
	default:
		return "", fmt.Errorf("unknown swipe direction: %s", dir)
	}
}
