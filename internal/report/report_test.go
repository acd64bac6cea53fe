package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporter_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	rep := New(LevelSome, &buf)
	rep.Warnf(LevelSome, "duplicate label")
	rep.Warnf(LevelAll, "informational notice")
	rep.Flush()

	out := buf.String()
	if !strings.Contains(out, "duplicate label") {
		t.Errorf("expected warning in output, got %q", out)
	}
	if strings.Contains(out, "informational notice") {
		t.Errorf("level-2 notice shown at level 1: %q", out)
	}
}

func TestReporter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	rep := New(LevelQuiet, &buf)
	rep.Warnf(LevelSome, "something")
	rep.Flush()
	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}
}

func TestReporter_CollapsesRepeats(t *testing.T) {
	var buf bytes.Buffer
	rep := New(LevelSome, &buf)
	for i := 0; i < 3; i++ {
		rep.Warnf(LevelSome, "no target found for reference @tbl:missing")
	}
	if rep.Count() != 1 {
		t.Errorf("expected 1 distinct warning, got %d", rep.Count())
	}
	rep.Flush()
	out := buf.String()
	if !strings.Contains(out, "(x3)") {
		t.Errorf("expected collapsed count in output, got %q", out)
	}
	if strings.Count(out, "tbl:missing") != 1 {
		t.Errorf("expected a single line, got %q", out)
	}
}

func TestReporter_SetLevelAfterWarn(t *testing.T) {
	var buf bytes.Buffer
	rep := New(LevelSome, &buf)
	rep.Warnf(LevelAll, "notice recorded before the level was known")
	rep.SetLevel(LevelAll)
	rep.Flush()
	if !strings.Contains(buf.String(), "notice recorded") {
		t.Errorf("expected the raised level to expose earlier notices, got %q", buf.String())
	}
}

func TestReporter_FlushResets(t *testing.T) {
	var buf bytes.Buffer
	rep := New(LevelSome, &buf)
	rep.Warnf(LevelSome, "once")
	rep.Flush()
	buf.Reset()
	rep.Flush()
	if buf.Len() != 0 {
		t.Errorf("expected nothing after reset, got %q", buf.String())
	}
}
