package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		log, err := New(tt.in, "")
		if err != nil {
			t.Fatalf("New(%q): %v", tt.in, err)
		}
		if log.GetLevel() != tt.want {
			t.Errorf("New(%q) level = %v, want %v", tt.in, log.GetLevel(), tt.want)
		}
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitepulse.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.WithField("date", "2024-05-08").Info("score stored")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "score stored") || !strings.Contains(string(data), "date=2024-05-08") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewBadFile(t *testing.T) {
	if _, err := New("info", filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("expected error for unwritable log path")
	}
}
