package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type kind int

const (
	kindString kind = iota
	kindBool
	kindInt
)

func (k kind) String() string {
	switch k {
	case kindBool:
		return "a boolean"
	case kindInt:
		return "an integer"
	default:
		return "a string"
	}
}

// selectorKeys is the allow-list of UiSelector predicates a caller may use.
var selectorKeys = map[string]kind{
	"text":                kindString,
	"textContains":        kindString,
	"textMatches":         kindString,
	"textStartsWith":      kindString,
	"description":         kindString,
	"descriptionContains": kindString,
	"resourceId":          kindString,
	"className":           kindString,
	"packageName":         kindString,
	"clickable":           kindBool,
	"enabled":             kindBool,
	"focusable":           kindBool,
	"scrollable":          kindBool,
	"checkable":           kindBool,
	"checked":             kindBool,
	"selected":            kindBool,
	"index":               kindInt,
	"instance":            kindInt,
}

// Criteria is a validated set of selector predicates. Values are string, bool or int.
type Criteria map[string]interface{}

// ParseCriteria keeps the allow-listed keys of args and drops the rest.
// A recognised key holding the wrong JSON type is an error.
func ParseCriteria(args map[string]interface{}) (Criteria, error) {
	c := Criteria{}
	for key, raw := range args {
		k, ok := selectorKeys[key]
		if !ok {
			continue
		}
		v, err := coerce(k, raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q must be %s", key, k)
		}
		c[key] = v
	}
	return c, nil
}

func coerce(k kind, raw interface{}) (interface{}, error) {
	switch k {
	case kindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case kindBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case kindInt:
		switch n := raw.(type) {
		case float64:
			if n == float64(int(n)) {
				return int(n), nil
			}
		case int:
			return n, nil
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return int(i), nil
			}
		}
	}
	return nil, fmt.Errorf("wrong type %T", raw)
}

func (c Criteria) keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UiSelector renders the criteria as a UiSelector expression, keys in
// alphabetical order.
func (c Criteria) UiSelector() string {
	var b strings.Builder
	b.WriteString("new UiSelector()")
	for _, key := range c.keys() {
		b.WriteString(".")
		b.WriteString(key)
		b.WriteString("(")
		switch v := c[key].(type) {
		case string:
			b.WriteString(quote(v))
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case int:
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteString(")")
	}
	return b.String()
}

// String renders the criteria as JSON with sorted keys, for messages.
func (c Criteria) String() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]interface{}(c)); err != nil {
		return fmt.Sprint(map[string]interface{}(c))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// quote escapes a Java string literal for the UiSelector parser.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
