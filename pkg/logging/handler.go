package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// lineHandler renders records in the nROS log line format:
//
//	[<level-initial>] <logger-name> > <message>
//
// The logger name is taken from the "subsystem" attribute; an "error"
// attribute, when present, is appended after the message.
type lineHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func newLineHandler(w io.Writer, level LogLevel) *lineHandler {
	return &lineHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level.SlogLevel(),
	}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	subsystem := "nros"
	errText := ""
	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "subsystem":
			subsystem = a.Value.String()
		case "error":
			errText = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	line := fmt.Sprintf("[%c] %s > %s", levelInitial(r.Level), subsystem, r.Message)
	if errText != "" {
		line += ": " + errText
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *lineHandler) WithGroup(string) slog.Handler {
	// groups have no representation in the line format
	return h
}

func levelInitial(level slog.Level) byte {
	switch {
	case level < slog.LevelInfo:
		return 'D'
	case level < slog.LevelWarn:
		return 'I'
	case level < slog.LevelError:
		return 'W'
	default:
		return 'E'
	}
}
