package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matchmaker/internal/config"
)

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: FormatText, Component: "test"}, &buf)
	log.Info("hello muzz", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello muzz") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatJSON, Component: "json_test"}, &buf)
	log.Info("json log", "foo", "bar")

	out := buf.String()
	if !strings.Contains(out, `"msg":"json log"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"component":"json_test"`) {
		t.Errorf("expected component in JSON, got: %s", out)
	}
	if !strings.Contains(out, `"foo":"bar"`) {
		t.Errorf("expected structured field in JSON, got: %s", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "error", Format: FormatText}, &buf)
	log.Info("should not appear")
	log.Error("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info log should not appear, got: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("error log should appear, got: %s", out)
	}
}

func TestLogger_FromConfigDefaults(t *testing.T) {
	cfg := config.Default()
	if FromConfig(cfg) == nil || FromConfig(nil) == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(New(Config{Level: "debug", Format: FormatText}, &buf), 50*time.Millisecond)
	ctx := context.Background()

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT broken", 0 }, errors.New("boom"))
	gl.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT slow", 3 }, nil)

	out := buf.String()
	for _, want := range []string{"subsystem=gorm", `sql="SELECT 1"`, "query failed", "err=boom", "slow query"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 1 }, nil)
	if buf.Len() != 0 {
		t.Errorf("silent mode should not log, got: %s", buf.String())
	}
}
