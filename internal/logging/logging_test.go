package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	logger, cleanup, err := New(Options{Path: path, Level: zapcore.InfoLevel})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("answer recorded", zap.String("question_id", "7"))
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1 (debug filtered):\n%s", len(lines), data)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "answer recorded" || rec["level"] != "INFO" || rec["question_id"] != "7" {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("record has no time")
	}
}

func TestNewConsoleTee(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(Options{
		Path:    filepath.Join(t.TempDir(), "app.log"),
		Level:   zapcore.DebugLevel,
		Console: &buf,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("catalog loaded")
	cleanup()

	if !strings.Contains(buf.String(), "catalog loaded") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
