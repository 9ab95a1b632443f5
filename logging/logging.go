package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

var logger *slog.Logger

func init() {
	InitLogger("info")
}

// InitLogger initializes the global logger with the specified level
func InitLogger(level string) {
	setup(os.Stderr, level, false)
}

// InitJournalLogger behaves like InitLogger and additionally copies every
// record to the systemd journal when one is reachable.
func InitJournalLogger(level string) {
	setup(os.Stderr, level, journal.Enabled())
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setup(w io.Writer, level string, toJournal bool) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if toJournal {
		handler = &journalHandler{next: handler, send: journal.Send}
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

type journalHandler struct {
	next   slog.Handler
	fields map[string]string
	group  string
	send   func(message string, priority journal.Priority, vars map[string]string) error
}

func (h *journalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *journalHandler) Handle(ctx context.Context, r slog.Record) error {
	vars := make(map[string]string, len(h.fields)+r.NumAttrs())
	for k, v := range h.fields {
		vars[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addVar(vars, h.group, a)
		return true
	})
	// Journal errors are dropped, the text handler still runs.
	_ = h.send(r.Message, priority(r.Level), vars)
	return h.next.Handle(ctx, r)
}

func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(map[string]string, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		fields[k] = v
	}
	for _, a := range attrs {
		addVar(fields, h.group, a)
	}
	return &journalHandler{
		next:   h.next.WithAttrs(attrs),
		fields: fields,
		group:  h.group,
		send:   h.send,
	}
}

func (h *journalHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "_" + name
	}
	return &journalHandler{
		next:   h.next.WithGroup(name),
		fields: h.fields,
		group:  group,
		send:   h.send,
	}
}

func priority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// addVar stores a as a journal field. Field names may only contain
// upper-case letters, digits and underscores.
func addVar(vars map[string]string, group string, a slog.Attr) {
	key := a.Key
	if group != "" {
		key = group + "_" + key
	}
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	key = strings.TrimLeft(key, "_")
	if key == "" {
		return
	}
	vars[key] = fmt.Sprint(a.Value.Resolve().Any())
}
