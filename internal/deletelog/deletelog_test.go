package deletelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type options struct {
	Force    bool `json:"force"`
	Preserve bool `json:"preserve"`
}

func TestOnDelete(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
		wantError string
	}{
		{name: "success", wantLevel: "info", wantMsg: "OK"},
		{name: "failure", err: errors.New("Project 'foo' has open changes."), wantLevel: "error", wantMsg: "FAIL", wantError: "Project 'foo' has open changes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).OnDelete("admin", "foo", options{Force: true}, tt.err)

			var record map[string]any
			if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
				t.Fatalf("record is not JSON: %v\n%s", err, buf.String())
			}
			if record["level"] != tt.wantLevel {
				t.Errorf("expected level %q, got %v", tt.wantLevel, record["level"])
			}
			if record["msg"] != tt.wantMsg {
				t.Errorf("expected msg %q, got %v", tt.wantMsg, record["msg"])
			}
			if record["user"] != "admin" || record["project"] != "foo" {
				t.Errorf("unexpected user/project: %v", record)
			}
			if record["options"] != `{"force":true,"preserve":false}` {
				t.Errorf("unexpected options: %v", record["options"])
			}
			if tt.wantError == "" {
				if _, ok := record["error"]; ok {
					t.Errorf("unexpected error field: %v", record["error"])
				}
			} else if record["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, record["error"])
			}
			if _, ok := record["time"]; !ok {
				t.Error("expected a timestamp")
			}
		})
	}
}

func TestOpenAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	for range 2 {
		l, err := Open(dir)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		l.OnDelete("admin", "foo", options{}, nil)
		if err := l.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 records, got %d:\n%s", len(lines), data)
	}
}

func TestNilLog(t *testing.T) {
	var l *Log
	l.OnDelete("admin", "foo", nil, nil)
	if err := l.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
