package logging

import (
	"bytes"
	"os"
	"testing"
)

// unsetenv removes key for the rest of the test. t.Setenv must have been
// called for key first so the original value is restored afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{"terminal", nil, true, true},
		{"pipe", nil, false, false},
		{"NO_COLOR on terminal", map[string]string{"NO_COLOR": "1"}, true, false},
		{"NO_COLOR beats FORCE_COLOR", map[string]string{"NO_COLOR": "", "FORCE_COLOR": "1"}, true, false},
		{"FORCE_COLOR on pipe", map[string]string{"FORCE_COLOR": "1"}, false, true},
		{"FORCE_COLOR=0 is ignored", map[string]string{"FORCE_COLOR": "0"}, false, false},
		{"TERM=dumb", map[string]string{"TERM": "dumb"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "")
			t.Setenv("FORCE_COLOR", "")
			t.Setenv("TERM", "xterm-256color")
			unsetenv(t, "NO_COLOR")
			unsetenv(t, "FORCE_COLOR")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := supportsColor(tt.isTTY); got != tt.want {
				t.Errorf("supportsColor(%v) = %v, want %v (env=%v)", tt.isTTY, got, tt.want, tt.env)
			}
		})
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}

func TestHandler_NoColorForLogFile(t *testing.T) {
	t.Setenv("FORCE_COLOR", "")
	unsetenv(t, "FORCE_COLOR")

	var buf bytes.Buffer
	h := NewHandler(&buf, nil)
	if h.colors != nil {
		t.Error("expected colors to be disabled for a non-terminal writer")
	}
}
