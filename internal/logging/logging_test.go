package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFanoutRespectsLevels(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	logger := slog.New(Fanout(
		NewStreamHandler(&infoBuf, slog.LevelInfo, true),
		NewStreamHandler(&errBuf, slog.LevelError, true),
	))

	logger.Info("poll ok", "poller", "calendar")
	logger.Error("poll failed", "poller", "notifications")

	if !strings.Contains(infoBuf.String(), "poll ok") || !strings.Contains(infoBuf.String(), "poll failed") {
		t.Errorf("info handler missing records: %q", infoBuf.String())
	}
	if strings.Contains(errBuf.String(), "poll ok") {
		t.Errorf("error handler received info record: %q", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "poll failed") {
		t.Errorf("error handler missing error record: %q", errBuf.String())
	}
}

func TestFanoutWithAttrs(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(Fanout(
		NewStreamHandler(&a, slog.LevelInfo, true),
		NewStreamHandler(&b, slog.LevelInfo, true),
	)).With("poller", "pulls")

	logger.Info("published")

	for i, buf := range []*bytes.Buffer{&a, &b} {
		if !strings.Contains(buf.String(), "poller=pulls") {
			t.Errorf("handler %d missing attr: %q", i, buf.String())
		}
	}
}

func TestSetupConsoleWritesFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "statusdeck.log")
	logger, err := Setup(Options{File: path, Level: "debug", Console: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { _ = CloseFile() })

	logger.Debug("heartbeat", "page", "home")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "heartbeat") {
		t.Errorf("log file missing record: %q", data)
	}
}

var errDiskFull = errors.New("disk full")

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errDiskFull }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h failingHandler) WithGroup(string) slog.Handler { return h }

func TestFanoutContinuesPastFailingHandler(t *testing.T) {
	var buf bytes.Buffer
	h := Fanout(failingHandler{}, NewStreamHandler(&buf, slog.LevelInfo, true))

	var r slog.Record
	r.Level = slog.LevelInfo
	r.Message = "poll ok"
	err := h.Handle(context.Background(), r)

	if !errors.Is(err, errDiskFull) {
		t.Errorf("Handle error = %v, want %v", err, errDiskFull)
	}
	if !strings.Contains(buf.String(), "poll ok") {
		t.Errorf("stream handler missed record after file handler failed: %q", buf.String())
	}
}
