package bridge

import (
	"strconv"

	"github.com/pkg/errors"
)

// args is the "args" object of a command. Accessors return stack-carrying
// errors so a bad argument can be reported with a traceback.
type args map[string]interface{}

func missing(name string) error {
	return errors.Errorf("missing required argument %q", name)
}

func wrongType(name, kind string) error {
	return errors.Errorf("argument %q must be %s", name, kind)
}

// lookup treats an explicit null like an absent key.
func (a args) lookup(name string) (interface{}, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (a args) number(name string) (float64, error) {
	v, ok := a.lookup(name)
	if !ok {
		return 0, missing(name)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, wrongType(name, "a number")
	}
	return n, nil
}

func (a args) numberOr(name string, def float64) (float64, error) {
	if _, ok := a.lookup(name); !ok {
		return def, nil
	}
	return a.number(name)
}

func (a args) str(name string) (string, error) {
	v, ok := a.lookup(name)
	if !ok {
		return "", missing(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(name, "a string")
	}
	return s, nil
}

func (a args) strOr(name, def string) (string, error) {
	if _, ok := a.lookup(name); !ok {
		return def, nil
	}
	return a.str(name)
}

// optStr distinguishes an absent value (nil) from an empty string.
func (a args) optStr(name string) (*string, error) {
	if _, ok := a.lookup(name); !ok {
		return nil, nil
	}
	s, err := a.str(name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (a args) boolOr(name string, def bool) (bool, error) {
	v, ok := a.lookup(name)
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(name, "a boolean")
	}
	return b, nil
}

// key accepts a key name or a numeric keycode.
func (a args) key(name string) (string, error) {
	v, ok := a.lookup(name)
	if !ok {
		return "", missing(name)
	}
	switch k := v.(type) {
	case string:
		return k, nil
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), nil
	default:
		return "", wrongType(name, "a string or number")
	}
}

// box reads an optional [left, top, right, bottom] array.
func (a args) box(name string) ([]float64, error) {
	v, ok := a.lookup(name)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, wrongType(name, "an array of numbers")
	}
	out := make([]float64, len(list))
	for i, item := range list {
		n, ok := item.(float64)
		if !ok {
			return nil, wrongType(name, "an array of numbers")
		}
		out[i] = n
	}
	return out, nil
}
