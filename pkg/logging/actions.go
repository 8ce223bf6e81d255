package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ActionsHandler is a slog.Handler that writes GitHub Actions workflow
// commands. Debug, warning and error records become ::debug::, ::warning::
// and ::error:: lines; info records are written as plain lines.
type ActionsHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// NewActionsHandler creates an ActionsHandler writing to w.
func NewActionsHandler(w io.Writer, level slog.Leveler) *ActionsHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ActionsHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *ActionsHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *ActionsHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	switch {
	case r.Level >= slog.LevelError:
		b.WriteString("::error::")
	case r.Level >= slog.LevelWarn:
		b.WriteString("::warning::")
	case r.Level < slog.LevelInfo:
		b.WriteString("::debug::")
	}

	// Workflow commands are line oriented.
	b.WriteString(escapeData(r.Message))

	writeAttr := func(a slog.Attr) bool {
		// The subsystem is noise in the Actions log view.
		if a.Key == "subsystem" {
			return true
		}
		fmt.Fprintf(&b, " %s=%s", a.Key, escapeData(a.Value.String()))
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ActionsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup is a no-op; workflow commands have no notion of groups of attributes.
func (h *ActionsHandler) WithGroup(string) slog.Handler {
	return h
}

// escapeData applies the workflow command data escaping rules.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
