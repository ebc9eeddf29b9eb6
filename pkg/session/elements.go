package session

import (
	"encoding/json"
)

// FindElement reports whether an element matches c and, if so, describes it.
func (s *Session) FindElement(c Criteria) Result {
	return s.call(func() Result {
		info, found, err := s.backend.Find(c.UiSelector())
		if err != nil {
			return fail(err)
		}
		if !found {
			return Success().With("found", false)
		}
		return Success().With("found", true).With("element", describe(info))
	})
}

// ElementClick taps the element matching c, waiting up to timeout seconds.
func (s *Session) ElementClick(c Criteria, timeout float64) Result {
	return s.call(func() Result {
		if err := s.backend.ElementClick(c.UiSelector(), seconds(timeout)); err != nil {
			return fail(err)
		}
		return Message("Clicked element with selector: " + c.String())
	})
}

// ElementLongClick presses the element matching c for duration seconds.
func (s *Session) ElementLongClick(c Criteria, duration float64) Result {
	return s.call(func() Result {
		if err := s.backend.ElementLongClick(c.UiSelector(), seconds(duration)); err != nil {
			return fail(err)
		}
		return Message("Long clicked element with selector: " + c.String())
	})
}

// XPath actions.
const (
	XPathClick        = "click"
	XPathInputText    = "input_text"
	XPathGetText      = "get_text"
	XPathGetAttribute = "get_attribute"
)

// XPathOperation runs action on the element matching query. text is required
// for input_text and checked before the device is touched.
func (s *Session) XPathOperation(query, action string, text *string) Result {
	return s.call(func() Result {
		failed := func(err error) Result {
			return Failure("XPath operation failed: " + err.Error())
		}

		switch action {
		case XPathClick:
			if err := s.backend.XPathClick(query); err != nil {
				return failed(err)
			}
			return Message("Clicked element with xpath: " + query)
		case XPathInputText:
			if text == nil {
				return Failure("Text parameter required for input_text action")
			}
			if err := s.backend.XPathSetText(query, *text); err != nil {
				return failed(err)
			}
			return Message("Input text '" + *text + "' to element with xpath: " + query)
		case XPathGetText:
			t, err := s.backend.XPathText(query)
			if err != nil {
				return failed(err)
			}
			return Data(map[string]interface{}{"text": t})
		case XPathGetAttribute:
			attrs, err := s.backend.XPathInfo(query)
			if err != nil {
				return failed(err)
			}
			return Data(map[string]interface{}{"attributes": attrs})
		default:
			return Failure("Unsupported action: " + action)
		}
	})
}

// describe maps backend element info to the reported element shape.
func describe(info map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"text":        stringOr(info, "text", ""),
		"description": stringOr(info, "contentDescription", ""),
		"resourceId":  stringOr(info, "resourceName", ""),
		"className":   stringOr(info, "className", ""),
		"packageName": stringOr(info, "packageName", ""),
		"bounds":      Bounds(info["bounds"]),
		"clickable":   boolOr(info, "clickable", false),
		"enabled":     boolOr(info, "enabled", true),
		"focusable":   boolOr(info, "focusable", false),
		"focused":     boolOr(info, "focused", false),
		"scrollable":  boolOr(info, "scrollable", false),
		"selected":    boolOr(info, "selected", false),
		"checkable":   boolOr(info, "checkable", false),
		"checked":     boolOr(info, "checked", false),
	}
}

// Bounds normalizes a bounds value to [left, top, right, bottom]. Only an object
// carrying "left" counts; anything else is [0, 0, 0, 0]. Missing sides are 0.
func Bounds(v interface{}) []float64 {
	out := []float64{0, 0, 0, 0}
	m, ok := v.(map[string]interface{})
	if !ok {
		return out
	}
	if _, ok := m["left"]; !ok {
		return out
	}
	for i, side := range []string{"left", "top", "right", "bottom"} {
		out[i] = number(m[side])
	}
	return out
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

func stringOr(m map[string]interface{}, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

func boolOr(m map[string]interface{}, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}
