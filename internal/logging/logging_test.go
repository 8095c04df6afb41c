package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		wantErr bool
	}{
		{in: "", enabled: false},
		{in: "off", enabled: false},
		{in: "DEBUG", enabled: true},
		{in: "info", enabled: true},
		{in: "warning", enabled: true},
		{in: "error", enabled: true},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		_, ok, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if ok != tt.enabled {
			t.Fatalf("%q: enabled=%v, want %v", tt.in, ok, tt.enabled)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("tick", "progress", 42.5)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %s", out)
	}
	if !strings.Contains(out, "msg=tick") || !strings.Contains(out, "progress=42.5") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	off, err := New(&buf, "off")
	if err != nil {
		t.Fatalf("new off: %v", err)
	}
	off.Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("off logger wrote output: %s", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "datamover.log")
	logger, closeFn, err := Open(path, "debug", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Debug("paired", "session", "abc")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "session=abc") {
		t.Fatalf("log missing record: %s", data)
	}

	_, closeFn, err = Open(filepath.Join(t.TempDir(), "never.log"), "off", nil)
	if err != nil || closeFn == nil {
		t.Fatalf("off should succeed with a close func: %v", err)
	}
}
