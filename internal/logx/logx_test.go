package logx

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel)
	log.Info().Int("episode", 3).Msg("finished")
	log.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "finished") || !strings.Contains(out, "episode=3") {
		t.Errorf("missing message or field in %q", out)
	}
	if !strings.Contains(out, "logx_test.go:") {
		t.Errorf("missing caller in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes written to a buffer: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    zerolog.Level
		wantErr bool
	}{
		{"", false, zerolog.InfoLevel, false},
		{"warn", false, zerolog.WarnLevel, false},
		{"DEBUG", false, zerolog.DebugLevel, false},
		{"error", true, zerolog.DebugLevel, false},
		{"loud", false, zerolog.NoLevel, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.name, tc.verbose)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q, %v) error = %v", tc.name, tc.verbose, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q, %v) = %v, want %v", tc.name, tc.verbose, got, tc.want)
		}
	}
}

func TestNewConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	bufs := make([]bytes.Buffer, 8)
	for i := range bufs {
		wg.Add(1)
		go func(buf *bytes.Buffer) {
			defer wg.Done()
			log := New(buf, zerolog.InfoLevel)
			log.Info().Msg("ready")
		}(&bufs[i])
	}
	wg.Wait()
	for i := range bufs {
		if out := bufs[i].String(); !strings.Contains(out, "logx_test.go:") {
			t.Errorf("logger %d missing caller in %q", i, out)
		}
	}
}
