// Package bridge implements the command loop: one JSON command per input line,
// one JSON result per output line, in order.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/devicelab-dev/uia2-bridge/pkg/logger"
	"github.com/devicelab-dev/uia2-bridge/pkg/session"
)

// DefaultMaxLineSize bounds a single command line.
const DefaultMaxLineSize = 64 << 20

// Loop reads commands and writes results. The session is created on the first
// well-formed command and kept for the life of the loop.
type Loop struct {
	connect     session.ConnectFunc
	session     *session.Session // nil until the first command
	handlers    map[string]handler
	maxLineSize int
}

// Option configures a Loop.
type Option func(*Loop)

// WithMaxLineSize sets the longest accepted input line in bytes.
func WithMaxLineSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxLineSize = n
		}
	}
}

// New creates a Loop that connects through connect on the first command.
func New(connect session.ConnectFunc, opts ...Option) *Loop {
	l := &Loop{
		connect:     connect,
		handlers:    actions(),
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Session returns the active session, or nil before the first command.
func (l *Loop) Session() *session.Session {
	return l.session
}

// Close releases the session, if one was created.
func (l *Loop) Close() error {
	if l.session == nil {
		return nil
	}
	if err := l.session.Close(); err != nil {
		logger.Warn("close session: %v", err)
		return err
	}
	return nil
}

type flusher interface {
	Flush() error
}

// errLineTooLong marks an input line that was drained without being parsed.
var errLineTooLong = errors.New("line too long")

// input is one line read from the command stream, or the error that ended it.
type input struct {
	line []byte
	err  error
}

// Run processes r until end of input or until ctx is cancelled. Command
// failures never stop the loop. A read error is reported on w and returned.
// Reading happens on its own goroutine so cancellation returns at once even
// when r is blocked; that goroutine exits with the next read after Run returns.
func (l *Loop) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	done := make(chan struct{})
	defer close(done)
	lines := l.read(r, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case in, ok := <-lines:
			if !ok {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			if err := l.process(in, w); err != nil {
				return err
			}
		}
	}
}

// process answers one input. Only a read error or a failed write is returned.
func (l *Loop) process(in input, w io.Writer) error {
	switch {
	case in.err == errLineTooLong:
		logger.Warn("dropped input line over %d bytes", l.maxLineSize)
		return write(w, session.Failure(fmt.Sprintf("Invalid JSON: line exceeds %d bytes", l.maxLineSize)))
	case in.err != nil:
		logger.Error("read commands: %v", in.err)
		_ = write(w, session.Failure("Bridge error: "+in.err.Error()))
		return in.err
	}

	line := bytes.TrimSpace(in.line)
	if len(line) == 0 {
		return nil
	}
	return write(w, l.handleLine(line))
}

// read feeds lines from r until EOF, a read error, or done.
func (l *Loop) read(r io.Reader, done <-chan struct{}) <-chan input {
	lines := make(chan input)
	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(r, readBufferSize(l.maxLineSize))
		for {
			line, err := readLine(br, l.maxLineSize)
			if err == io.EOF {
				return
			}
			select {
			case lines <- input{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil && err != errLineTooLong {
				return
			}
		}
	}()
	return lines
}

func readBufferSize(max int) int {
	if max < 64*1024 {
		return max
	}
	return 64 * 1024
}

// readLine returns the next line without its newline. A line longer than max
// is read to its end, discarded, and reported as errLineTooLong. A final line
// without a newline is returned before io.EOF.
func readLine(br *bufio.Reader, max int) ([]byte, error) {
	var (
		line    []byte
		tooLong bool
		read    bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !tooLong {
			n := len(chunk)
			if n > 0 && chunk[n-1] == '\n' {
				n--
			}
			if len(line)+n > max {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk[:n]...)
			}
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && read:
			// Report what we have; the next call sees io.EOF alone.
		case err != nil:
			return nil, err
		}
		if tooLong {
			return nil, errLineTooLong
		}
		if line == nil {
			line = []byte{}
		}
		return line, nil
	}
}

// handleLine turns one input line into one result.
func (l *Loop) handleLine(line []byte) (result session.Result) {
	var raw interface{}
	if err := json.Unmarshal(line, &raw); err != nil {
		return session.Failure("Invalid JSON: " + err.Error())
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("command panic: %v", p)
			result = commandError(fmt.Sprint(p), string(debug.Stack()))
		}
	}()

	cmd, ok := raw.(map[string]interface{})
	if !ok {
		return commandError(fmt.Sprintf("command must be a JSON object, got %s", jsonKind(raw)), string(debug.Stack()))
	}
	action, _ := cmd["action"].(string)

	a := args{}
	switch v := cmd["args"].(type) {
	case nil:
	case map[string]interface{}:
		a = v
	default:
		return commandError(fmt.Sprintf("args must be a JSON object, got %s", jsonKind(v)), string(debug.Stack()))
	}

	if l.session == nil {
		serial, _ := a["deviceSerial"].(string)
		l.session = session.New(l.connect, serial)
		if l.session.Connected() {
			logger.Info("session connected (serial %q)", serial)
		}
	}

	h, ok := l.handlers[action]
	if !ok {
		logger.Warn("unknown action %q", action)
		return session.Failure(session.ErrUnknownAction)
	}

	start := time.Now()
	result, err := h(l.session, a)
	if err != nil {
		logger.Warn("%s: %v", action, err)
		return commandError(err.Error(), fmt.Sprintf("%+v", err))
	}
	logger.Debug("action=%s duration=%v error=%q", action, time.Since(start), result.Err())
	return result
}

func commandError(msg, traceback string) session.Result {
	return session.Failure("Command error: "+msg).With("traceback", traceback)
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "object"
	}
}

// write emits one result line and flushes buffered writers.
func write(w io.Writer, r session.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
