package bridge

import (
	"github.com/pkg/errors"

	"github.com/devicelab-dev/uia2-bridge/pkg/session"
)

// handler runs one action. A returned error means the arguments were unusable
// and is reported as a command error.
type handler func(s *session.Session, a args) (session.Result, error)

// Defaults for optional arguments.
const (
	defaultDoubleTapInterval = 0.1
	defaultLongTapDuration   = 0.5
	defaultClickTimeout      = 10.0
	defaultLongClickDuration = 0.5
	defaultSwipeDuration     = 0.5
	defaultSwipeScale        = 0.9
)

// noArgs adapts a session method that takes no arguments.
func noArgs(op func(*session.Session) session.Result) handler {
	return func(s *session.Session, _ args) (session.Result, error) {
		return op(s), nil
	}
}

// actions builds the dispatch table.
func actions() map[string]handler {
	return map[string]handler{
		"get_device_info":    noArgs((*session.Session).DeviceInfo),
		"get_window_size":    noArgs((*session.Session).WindowSize),
		"get_current_app":    noArgs((*session.Session).CurrentApp),
		"tap":                tap,
		"double_tap":         doubleTap,
		"long_tap":           longTap,
		"input_text":         inputText,
		"clear_text":         noArgs((*session.Session).ClearText),
		"find_element":       findElement,
		"element_click":      elementClick,
		"element_long_click": elementLongClick,
		"get_screen_dump":    noArgs((*session.Session).ScreenDump),
		"take_screenshot":    takeScreenshot,
		"open_app":           openApp,
		"stop_app":           stopApp,
		"press_key":          pressKey,
		"swipe":              swipe,
		"swipe_ext":          swipeExt,
		"drag":               drag,
		"xpath_operation":    xpathOperation,
		"screen_on":          noArgs((*session.Session).ScreenOn),
		"screen_off":         noArgs((*session.Session).ScreenOff),
		"unlock":             noArgs((*session.Session).Unlock),
		"get_installed_apps": noArgs((*session.Session).InstalledApps),
	}
}

func xy(a args) (float64, float64, error) {
	x, err := a.number("x")
	if err != nil {
		return 0, 0, err
	}
	y, err := a.number("y")
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// points reads four required numbers in order.
func points(a args, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := a.number(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func tap(s *session.Session, a args) (session.Result, error) {
	x, y, err := xy(a)
	if err != nil {
		return nil, err
	}
	return s.Tap(x, y), nil
}

func doubleTap(s *session.Session, a args) (session.Result, error) {
	x, y, err := xy(a)
	if err != nil {
		return nil, err
	}
	d, err := a.numberOr("duration", defaultDoubleTapInterval)
	if err != nil {
		return nil, err
	}
	return s.DoubleTap(x, y, d), nil
}

func longTap(s *session.Session, a args) (session.Result, error) {
	x, y, err := xy(a)
	if err != nil {
		return nil, err
	}
	d, err := a.numberOr("duration", defaultLongTapDuration)
	if err != nil {
		return nil, err
	}
	return s.LongTap(x, y, d), nil
}

func inputText(s *session.Session, a args) (session.Result, error) {
	text, err := a.str("text")
	if err != nil {
		return nil, err
	}
	clear, err := a.boolOr("clear", false)
	if err != nil {
		return nil, err
	}
	return s.InputText(text, clear), nil
}

func criteria(a args) (session.Criteria, error) {
	c, err := session.ParseCriteria(a)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

func findElement(s *session.Session, a args) (session.Result, error) {
	c, err := criteria(a)
	if err != nil {
		return nil, err
	}
	return s.FindElement(c), nil
}

func elementClick(s *session.Session, a args) (session.Result, error) {
	timeout, err := a.numberOr("timeout", defaultClickTimeout)
	if err != nil {
		return nil, err
	}
	c, err := criteria(a)
	if err != nil {
		return nil, err
	}
	return s.ElementClick(c, timeout), nil
}

func elementLongClick(s *session.Session, a args) (session.Result, error) {
	d, err := a.numberOr("duration", defaultLongClickDuration)
	if err != nil {
		return nil, err
	}
	c, err := criteria(a)
	if err != nil {
		return nil, err
	}
	return s.ElementLongClick(c, d), nil
}

func takeScreenshot(s *session.Session, a args) (session.Result, error) {
	filename, err := a.strOr("filename", "")
	if err != nil {
		return nil, err
	}
	format, err := a.strOr("format", session.FormatPillow)
	if err != nil {
		return nil, err
	}
	return s.TakeScreenshot(filename, format), nil
}

func openApp(s *session.Session, a args) (session.Result, error) {
	pkg, err := a.str("packageName")
	if err != nil {
		return nil, err
	}
	stop, err := a.boolOr("stop", false)
	if err != nil {
		return nil, err
	}
	useMonkey, err := a.boolOr("useMonkey", false)
	if err != nil {
		return nil, err
	}
	activity, err := a.strOr("activity", "")
	if err != nil {
		return nil, err
	}
	return s.OpenApp(pkg, stop, useMonkey, activity), nil
}

func stopApp(s *session.Session, a args) (session.Result, error) {
	pkg, err := a.str("packageName")
	if err != nil {
		return nil, err
	}
	return s.StopApp(pkg), nil
}

func pressKey(s *session.Session, a args) (session.Result, error) {
	key, err := a.key("key")
	if err != nil {
		return nil, err
	}
	return s.PressKey(key), nil
}

func swipe(s *session.Session, a args) (session.Result, error) {
	p, err := points(a, "fx", "fy", "tx", "ty")
	if err != nil {
		return nil, err
	}
	d, err := a.numberOr("duration", defaultSwipeDuration)
	if err != nil {
		return nil, err
	}
	return s.Swipe(p[0], p[1], p[2], p[3], d), nil
}

func swipeExt(s *session.Session, a args) (session.Result, error) {
	direction, err := a.str("direction")
	if err != nil {
		return nil, err
	}
	scale, err := a.numberOr("scale", defaultSwipeScale)
	if err != nil {
		return nil, err
	}
	box, err := a.box("box")
	if err != nil {
		return nil, err
	}
	return s.SwipeExt(direction, scale, box), nil
}

func drag(s *session.Session, a args) (session.Result, error) {
	p, err := points(a, "sx", "sy", "ex", "ey")
	if err != nil {
		return nil, err
	}
	d, err := a.numberOr("duration", defaultSwipeDuration)
	if err != nil {
		return nil, err
	}
	return s.Drag(p[0], p[1], p[2], p[3], d), nil
}

func xpathOperation(s *session.Session, a args) (session.Result, error) {
	query, err := a.str("xpath")
	if err != nil {
		return nil, err
	}
	action, err := a.strOr("action", session.XPathClick)
	if err != nil {
		return nil, err
	}
	text, err := a.optStr("text")
	if err != nil {
		return nil, err
	}
	return s.XPathOperation(query, action, text), nil
}
