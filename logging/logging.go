// Package logging builds the slog loggers used by the lexdraw command.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// New returns a logger writing to w. Format "json" selects the JSON
// handler; anything else the colored pretty handler.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &opts))
	}
	return slog.New(NewPrettyHandler(w, PrettyHandlerOptions{SlogOpts: opts}))
}

// PrettyHandlerOptions configure a PrettyHandler.
type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
	// NoColor disables ANSI colors, e.g. when writing to a file.
	NoColor bool
}

// PrettyHandler writes one human-readable line per record:
// time, colored level, message and the attributes as compact JSON.
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	attrs  []groupedAttr
	groups []string
}

// groupedAttr is an attribute added with WithAttrs under the groups open at the time.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewPrettyHandler creates a pretty handler.
func NewPrettyHandler(w io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, w: w, mu: &sync.Mutex{}}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		minLevel = h.opts.SlogOpts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) paint(attr color.Attribute, s string) string {
	if h.opts.NoColor {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// Handle implements slog.Handler.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = h.paint(color.FgRed, level)
	case r.Level >= slog.LevelWarn:
		level = h.paint(color.FgYellow, level)
	case r.Level >= slog.LevelInfo:
		level = h.paint(color.FgBlue, level)
	default:
		level = h.paint(color.FgMagenta, level)
	}

	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, ga := range h.attrs {
		addAttr(fields, ga.groups, ga.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.groups, a)
		return true
	})

	var line strings.Builder
	if !r.Time.IsZero() {
		line.WriteString(r.Time.Format("[15:04:05.000] "))
	}
	line.WriteString(level)
	line.WriteByte(' ')
	line.WriteString(h.paint(color.FgCyan, r.Message))
	if len(fields) > 0 {
		b, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode log attributes: %w", err)
		}
		line.WriteByte(' ')
		line.WriteString(h.paint(color.FgWhite, string(b)))
	}
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

func addAttr(fields map[string]any, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	for _, g := range groups {
		next, ok := fields[g].(map[string]any)
		if !ok {
			next = make(map[string]any)
			fields[g] = next
		}
		fields = next
	}
	if a.Value.Kind() == slog.KindGroup {
		group := make(map[string]any)
		for _, ga := range a.Value.Group() {
			addAttr(group, nil, ga)
		}
		if a.Key == "" {
			for k, v := range group {
				fields[k] = v
			}
			return
		}
		fields[a.Key] = group
		return
	}
	switch v := a.Value.Any().(type) {
	case error:
		fields[a.Key] = v.Error()
	case fmt.Stringer:
		fields[a.Key] = v.String()
	default:
		fields[a.Key] = v
	}
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]groupedAttr{}, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, groupedAttr{groups: h.groups, attr: a})
	}
	return &next
}

// WithGroup implements slog.Handler.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}
