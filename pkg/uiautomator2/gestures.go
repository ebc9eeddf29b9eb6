package uiautomator2

// Click taps at screen coordinates.
func (c *Client) Click(x, y int) error {
	req := ClickRequest{Offset: &PointModel{X: x, Y: y}}
	return c.value("POST", c.sessionPath("/appium/gestures/click"), req, nil)
}

// DoubleClick double-taps at screen coordinates.
func (c *Client) DoubleClick(x, y int) error {
	req := ClickRequest{Offset: &PointModel{X: x, Y: y}}
	return c.value("POST", c.sessionPath("/appium/gestures/double_click"), req, nil)
}

// LongClick presses at screen coordinates for durationMs.
func (c *Client) LongClick(x, y, durationMs int) error {
	req := LongClickRequest{
		Offset:   &PointModel{X: x, Y: y},
		Duration: durationMs,
	}
	return c.value("POST", c.sessionPath("/appium/gestures/long_click"), req, nil)
}

// LongClickElement presses the element for durationMs.
func (c *Client) LongClickElement(elementID string, durationMs int) error {
	req := LongClickRequest{
		Origin:   &ElementModel{ELEMENT: elementID},
		Duration: durationMs,
	}
	return c.value("POST", c.sessionPath("/appium/gestures/long_click"), req, nil)
}

// SwipeInArea swipes inside area. percent is the fraction of the area to cover,
// speed is pixels per second (0 lets the server pick).
func (c *Client) SwipeInArea(area RectModel, direction string, percent float64, speed int) error {
	req := SwipeRequest{
		Area:      &area,
		Direction: direction,
		Percent:   percent,
		Speed:     speed,
	}
	return c.value("POST", c.sessionPath("/appium/gestures/swipe"), req, nil)
}

// Drag drags from (startX, startY) to (endX, endY) at speed pixels per second.
func (c *Client) Drag(startX, startY, endX, endY, speed int) error {
	req := DragRequest{
		StartX: startX,
		StartY: startY,
		EndX:   endX,
		EndY:   endY,
		Speed:  speed,
	}
	return c.value("POST", c.sessionPath("/appium/gestures/drag"), req, nil)
}
