package refs

import (
	"testing"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
)

func TestTable_SetAndGet(t *testing.T) {
	tbl := New()
	if dup := tbl.Set("tbl:a", Target{Number: 1}); dup {
		t.Error("first assignment reported as duplicate")
	}
	got, ok := tbl.Get("tbl:a")
	if !ok {
		t.Fatal("label not found")
	}
	if got.Number != 1 || got.Duplicate {
		t.Errorf("unexpected target: %+v", got)
	}
}

func TestTable_DuplicateLastWriterWins(t *testing.T) {
	tbl := New()
	tbl.Set("tbl:a", Target{Number: 1})
	if dup := tbl.Set("tbl:a", Target{Number: 3}); !dup {
		t.Error("second assignment not reported as duplicate")
	}
	got, _ := tbl.Get("tbl:a")
	if got.Number != 3 {
		t.Errorf("expected last writer to win with 3, got %d", got.Number)
	}
	if !got.Duplicate {
		t.Error("expected the surviving target to be flagged as duplicate")
	}
	if tbl.Len() != 1 {
		t.Errorf("expected 1 distinct label, got %d", tbl.Len())
	}
}

func TestTable_LabelsInOrder(t *testing.T) {
	tbl := New()
	tbl.Set("tbl:b", Target{Number: 1})
	tbl.Set("tbl:a", Target{Number: 2})
	tbl.Set("tbl:b", Target{Number: 3})
	labels := tbl.Labels()
	if len(labels) != 2 || labels[0] != "tbl:b" || labels[1] != "tbl:a" {
		t.Errorf("expected [tbl:b tbl:a], got %v", labels)
	}
}

func TestTarget_String(t *testing.T) {
	if s := (Target{Number: 4}).String(); s != "4" {
		t.Errorf("expected 4, got %q", s)
	}
	if s := (Target{Tagged: true, Tag: "B-1"}).String(); s != "B-1" {
		t.Errorf("expected B-1, got %q", s)
	}
}

func TestTarget_Math(t *testing.T) {
	tgt := Target{Tagged: true, Tag: "$\\alpha + 1$"}
	if !tgt.IsMath() {
		t.Fatal("expected math tag")
	}
	if got := tgt.MathText(); got != "\\alpha + 1" {
		t.Errorf("expected delimiters stripped, got %q", got)
	}
	if (Target{Tagged: true, Tag: "B-1"}).IsMath() {
		t.Error("plain tag misread as math")
	}
}

func TestValueInlines_Number(t *testing.T) {
	out := ValueInlines(Target{Number: 2}, ":")
	if len(out) != 1 {
		t.Fatalf("expected 1 inline, got %d", len(out))
	}
	s, ok := out[0].(*pandoc.Str)
	if !ok || s.Text != "2:" {
		t.Errorf("expected Str %q, got %#v", "2:", out[0])
	}
}

func TestValueInlines_MathTag(t *testing.T) {
	out := ValueInlines(Target{Tagged: true, Tag: "$S 1$"}, ":")
	if len(out) != 2 {
		t.Fatalf("expected math plus glyph, got %d inlines", len(out))
	}
	m, ok := out[0].(*pandoc.Math)
	if !ok || m.Type != pandoc.InlineMath {
		t.Fatalf("expected inline math, got %#v", out[0])
	}
	if m.Text != `S\ 1` {
		t.Errorf("expected spaces escaped, got %q", m.Text)
	}
	if s, ok := out[1].(*pandoc.Str); !ok || s.Text != ":" {
		t.Errorf("expected glyph Str, got %#v", out[1])
	}
}
