package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := New(&buf, tt.verbose)
			log.Debug("debug line", zap.String("file", "A.java"))
			log.Info("info line")
			log.Warn("warn line", zap.String("file", "B.java"))

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v:\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "WARN") || !strings.Contains(out, `"file": "B.java"`) {
				t.Errorf("warning missing or malformed:\n%s", out)
			}
		})
	}
}
