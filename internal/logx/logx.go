// Package logx builds the console loggers used by the commands.
package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var callerOnce sync.Once

// New returns a console logger writing to w at the given level, with
// timestamps and the caller's file and line.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
	callerOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			return fmt.Sprintf("%-20s", fmt.Sprintf("%s:%d", filepath.Base(file), line))
		}
	})
	return zerolog.New(output).Level(level).With().Timestamp().Caller().Logger()
}

// ParseLevel maps a level name to a zerolog level. Verbose selects debug
// regardless of name.
func ParseLevel(name string, verbose bool) (zerolog.Level, error) {
	if verbose {
		return zerolog.DebugLevel, nil
	}
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
