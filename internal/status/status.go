// Package status evaluates the per-item acknowledgements a control plane
// batch mutation streams back.
package status

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"edgedeploy/internal/api"
)

// codeOK is the result code of a successful item.
const codeOK = http.StatusOK

// Level is the severity of an emitted message.
type Level int

const (
	LevelDebug Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "debug"
}

// Message is one human-readable line emitted while evaluating a batch.
type Message struct {
	Level Level
	Text  string
}

// Result is the outcome of evaluating a batch.
type Result struct {
	Success  bool
	Messages []Message
}

// Errors returns the texts of the error-level messages in order.
func (r Result) Errors() []string {
	var out []string
	for _, m := range r.Messages {
		if m.Level == LevelError {
			out = append(out, m.Text)
		}
	}
	return out
}

// Evaluate inspects items in order. A "message" is emitted at debug level; a
// "result" with code 200 emits its message at debug level, any other code
// emits its message (or "Error: <code>") at error level and marks the batch
// failed. Items with neither key are ignored.
//
// A result code that cannot be read as an integer is a contract violation
// and is returned as a MalformedResponseError.
func Evaluate(items []api.Record) (Result, error) {
	res := Result{Success: true}
	for i, item := range items {
		if msg, ok := item["message"]; ok {
			if text := stringify(msg); text != "" {
				res.Messages = append(res.Messages, Message{Level: LevelDebug, Text: text})
			}
		}

		raw, ok := item["result"]
		if !ok || raw == nil {
			continue
		}
		result, ok := raw.(map[string]interface{})
		if !ok {
			return Result{}, &api.MalformedResponseError{Reason: fmt.Errorf("item %d: result is %T, not an object", i, raw)}
		}
		code, err := coerceCode(result["code"])
		if err != nil {
			return Result{}, &api.MalformedResponseError{Reason: fmt.Errorf("item %d: %w", i, err)}
		}
		text := stringify(result["message"])

		if code == codeOK {
			if text != "" {
				res.Messages = append(res.Messages, Message{Level: LevelDebug, Text: text})
			}
			continue
		}

		if text == "" {
			text = fmt.Sprintf("Error: %d", code)
		}
		res.Messages = append(res.Messages, Message{Level: LevelError, Text: text})
		res.Success = false
	}
	return res, nil
}

func coerceCode(v interface{}) (int, error) {
	switch c := v.(type) {
	case json.Number:
		if n, err := c.Int64(); err == nil {
			return int(n), nil
		}
		f, err := c.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("result code %q is not an integer", c.String())
		}
		return int(f), nil
	case float64:
		if c != math.Trunc(c) {
			return 0, fmt.Errorf("result code %v is not an integer", c)
		}
		return int(c), nil
	case int:
		return c, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return 0, fmt.Errorf("result code %q is not an integer", c)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("result code is missing")
	default:
		return 0, fmt.Errorf("result code has unexpected type %T", v)
	}
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
