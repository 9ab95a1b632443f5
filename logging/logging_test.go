package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerInitialized(t *testing.T) {
	require.NotNil(t, GetLogger(), "Logger should be initialized")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		expectedLevel slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"warning level", "warning", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default for unknown", "invalid", slog.LevelInfo},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"mixed case", "InFo", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expectedLevel, ParseLevel(tt.level))
		})
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	setup(&buf, "warn", false)
	t.Cleanup(func() { InitLogger("info") })

	GetLogger().Info("hidden")
	GetLogger().Warn("shown", "finger", "index_right")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "finger=index_right")
}

func TestJournalHandlerFields(t *testing.T) {
	type sent struct {
		message  string
		priority journal.Priority
		vars     map[string]string
	}
	var got []sent

	var buf bytes.Buffer
	h := &journalHandler{
		next: slog.NewTextHandler(&buf, nil),
		send: func(message string, p journal.Priority, vars map[string]string) error {
			got = append(got, sent{message, p, vars})
			return nil
		},
	}

	log := slog.New(h).With("unit-code", "ETEC01").WithGroup("http")
	log.Error("Enrollment failed", "status", 409)

	require.Len(t, got, 1)
	require.Equal(t, "Enrollment failed", got[0].message)
	require.Equal(t, journal.PriErr, got[0].priority)
	require.Equal(t, "ETEC01", got[0].vars["UNIT_CODE"])
	require.Equal(t, "409", got[0].vars["HTTP_STATUS"])
	require.Contains(t, buf.String(), "Enrollment failed")
}

func TestPriority(t *testing.T) {
	require.Equal(t, journal.PriDebug, priority(slog.LevelDebug))
	require.Equal(t, journal.PriInfo, priority(slog.LevelInfo))
	require.Equal(t, journal.PriWarning, priority(slog.LevelWarn))
	require.Equal(t, journal.PriErr, priority(slog.LevelError))
}

func TestJournalHandlerEnabled(t *testing.T) {
	h := &journalHandler{next: slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})}
	require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))
}
