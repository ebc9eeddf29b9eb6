package automation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/uiautomator2"
)

// Element attributes reported by Find and XPathInfo, keyed by the name callers see.
var stringAttributes = []struct{ key, attr string }{
	{"text", "text"},
	{"contentDescription", "content-desc"},
	{"resourceName", "resource-id"},
	{"className", "class"},
	{"packageName", "package"},
}

var boolAttributes = []string{
	"checkable", "checked", "clickable", "enabled", "focusable",
	"focused", "longClickable", "scrollable", "selected",
}

// SendKeys types text into the focused field, clearing it first when asked.
func (d *Device) SendKeys(text string, clear bool) error {
	el, err := d.client.ActiveElement()
	if err != nil {
		return err
	}
	if clear {
		if err := el.Clear(); err != nil {
			return err
		}
	}
	return el.SendKeys(text)
}

// ClearText empties the focused field.
func (d *Device) ClearText() error {
	el, err := d.client.ActiveElement()
	if err != nil {
		return err
	}
	return el.Clear()
}

// Find looks up the first element matching a UiSelector expression. A miss is
// reported through the bool, not as an error.
func (d *Device) Find(selector string) (map[string]interface{}, bool, error) {
	els, err := d.client.FindElements(uiautomator2.StrategyUiAutomator, selector)
	if err != nil {
		return nil, false, err
	}
	if len(els) == 0 {
		return nil, false, nil
	}
	info, err := elementInfo(els[0])
	if err != nil {
		return nil, false, err
	}
	return info, true, nil
}

// ElementClick waits up to timeout for a UiSelector match and taps it.
func (d *Device) ElementClick(selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		els, err := d.client.FindElements(uiautomator2.StrategyUiAutomator, selector)
		if err != nil {
			return err
		}
		if len(els) > 0 {
			return els[0].Click()
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("element not found: %s", selector)
		}
		time.Sleep(d.pollInterval)
	}
}

// ElementLongClick presses a UiSelector match for duration.
func (d *Device) ElementLongClick(selector string, duration time.Duration) error {
	el, err := d.client.FindElement(uiautomator2.StrategyUiAutomator, selector)
	if err != nil {
		return err
	}
	return d.client.LongClickElement(el.ID(), millis(duration))
}

// XPathClick taps the element matching query.
func (d *Device) XPathClick(query string) error {
	el, err := d.client.FindElement(uiautomator2.StrategyXPath, query)
	if err != nil {
		return err
	}
	return el.Click()
}

// XPathSetText focuses the element matching query and replaces its text.
func (d *Device) XPathSetText(query, text string) error {
	el, err := d.client.FindElement(uiautomator2.StrategyXPath, query)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return err
	}
	return el.SendKeys(text)
}

// XPathText returns the text of the element matching query.
func (d *Device) XPathText(query string) (string, error) {
	el, err := d.client.FindElement(uiautomator2.StrategyXPath, query)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// XPathInfo returns the attributes of the element matching query.
func (d *Device) XPathInfo(query string) (map[string]interface{}, error) {
	el, err := d.client.FindElement(uiautomator2.StrategyXPath, query)
	if err != nil {
		return nil, err
	}
	return elementInfo(el)
}

// elementInfo reads an element's attributes and bounds. Bounds use the
// left/top/right/bottom form.
func elementInfo(el *uiautomator2.Element) (map[string]interface{}, error) {
	info := make(map[string]interface{}, len(stringAttributes)+len(boolAttributes)+1)

	for _, a := range stringAttributes {
		v, err := el.Attribute(a.attr)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.attr, err)
		}
		info[a.key] = v
	}
	for _, name := range boolAttributes {
		v, err := el.Attribute(name)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		b, _ := strconv.ParseBool(v)
		info[name] = b
	}

	rect, err := el.Rect()
	if err != nil {
		return nil, fmt.Errorf("rect: %w", err)
	}
	info["bounds"] = map[string]interface{}{
		"left":   rect.X,
		"top":    rect.Y,
		"right":  rect.X + rect.Width,
		"bottom": rect.Y + rect.Height,
	}

	return info, nil
}
