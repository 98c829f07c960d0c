package testutil

import (
	"log/slog"
	"testing"
)

func TestLogRecorder(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, rec := NewLogRecorder(slog.LevelDebug)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		records := rec.Records()
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}

		r, ok := rec.Find(slog.LevelInfo, "test")
		if !ok {
			t.Fatal("Expected to find 'test message'")
		}
		if r.Attrs["key"] != "value" {
			t.Errorf("Expected key=value, got %v", r.Attrs["key"])
		}
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, rec := NewLogRecorder(slog.LevelInfo)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if n := len(rec.Records()); n != 3 {
			t.Errorf("Expected debug to be dropped, got %d records", n)
		}
		if n := rec.Count(slog.LevelWarn); n != 1 {
			t.Errorf("Expected 1 warn record, got %d", n)
		}
	})

	t.Run("keeps logger attributes", func(t *testing.T) {
		logger, rec := NewLogRecorder(slog.LevelDebug)

		logger.With(slog.String("component", "loader")).Warn("report file not found")
		logger.Info("plain")

		r, ok := rec.Find(slog.LevelWarn, "not found")
		if !ok {
			t.Fatal("Expected warn record")
		}
		if r.Attrs["component"] != "loader" {
			t.Errorf("Expected component=loader, got %v", r.Attrs["component"])
		}

		plain, _ := rec.Find(slog.LevelInfo, "plain")
		if _, ok := plain.Attrs["component"]; ok {
			t.Error("Derived attributes must not leak into the parent logger")
		}
	})
}
