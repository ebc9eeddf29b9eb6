package session

import (
	"strconv"
)

// Result is one response envelope. Every operation returns one; the bridge
// serializes it as a single JSON line.
type Result map[string]interface{}

// Fixed error texts.
const (
	ErrNotConnected  = "Device not connected"
	ErrUnknownAction = "Unknown action"
)

// Success returns {"success": true}.
func Success() Result {
	return Result{"success": true}
}

// Message returns {"success": true, "message": msg}.
func Message(msg string) Result {
	return Success().With("message", msg)
}

// Data returns {"success": true, "data": data}.
func Data(data interface{}) Result {
	return Success().With("data", data)
}

// Failure returns {"error": msg}.
func Failure(msg string) Result {
	return Result{"error": msg}
}

// With sets key and returns r for chaining.
func (r Result) With(key string, value interface{}) Result {
	r[key] = value
	return r
}

// OK reports whether r is a success envelope.
func (r Result) OK() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// Err returns the error text, or "" for a success envelope.
func (r Result) Err() string {
	msg, _ := r["error"].(string)
	return msg
}

// num prints a coordinate or duration in its shortest form: 10, 10.5, 0.25.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
