package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fulldump/biff"
)

func TestParseLevel(t *testing.T) {

	level, err := ParseLevel("debug")
	biff.AssertNil(err)
	biff.AssertEqual(level, slog.LevelDebug)

	level, err = ParseLevel(" WARN ")
	biff.AssertNil(err)
	biff.AssertEqual(level, slog.LevelWarn)

	_, err = ParseLevel("loud")
	biff.AssertNotNil(err)
}

func TestNewLogger(t *testing.T) {

	buf := &bytes.Buffer{}
	logger := newLogger(buf, slog.LevelInfo, true)

	logger.Debug("hidden")
	logger.Info("table opened", "table", "users", "elapsed", 1500*time.Nanosecond)

	out := buf.String()
	biff.AssertFalse(strings.Contains(out, "hidden"))
	biff.AssertTrue(strings.Contains(out, "table opened"))
	biff.AssertTrue(strings.Contains(out, "table=users"))
	biff.AssertTrue(strings.Contains(out, "elapsed=2µs"))
}
