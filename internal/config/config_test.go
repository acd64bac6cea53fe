package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

func load(t *testing.T, meta map[string]pandoc.MetaValue) (Config, string) {
	t.Helper()
	var buf bytes.Buffer
	rep := report.New(report.LevelAll, &buf)
	cfg := Load(meta, rep)
	rep.Flush()
	return cfg, buf.String()
}

func inlines(s string) pandoc.MetaValue {
	return &pandoc.MetaInlines{Inlines: []pandoc.Inline{&pandoc.Str{Text: s}}}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CaptionName != "Table" {
		t.Errorf("expected caption name Table, got %q", cfg.CaptionName)
	}
	if cfg.Separator != SepColon {
		t.Errorf("expected colon separator, got %q", cfg.Separator)
	}
	if cfg.PlusName != [2]string{"table", "tables"} {
		t.Errorf("unexpected plus names: %v", cfg.PlusName)
	}
	if cfg.StarName != [2]string{"Table", "Tables"} {
		t.Errorf("unexpected star names: %v", cfg.StarName)
	}
	if cfg.WarningLevel != report.LevelSome {
		t.Errorf("expected warning level %d, got %d", report.LevelSome, cfg.WarningLevel)
	}
}

func TestLoad_CaptionName(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"tablenos-caption-name": inlines("Tabla"),
	})
	if cfg.CaptionName != "Tabla" {
		t.Errorf("expected Tabla, got %q", cfg.CaptionName)
	}
	if !cfg.CaptionNameChanged {
		t.Error("expected CaptionNameChanged")
	}
}

func TestLoad_Separator(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"tablenos-caption-separator": inlines("period"),
	})
	if cfg.Separator != SepPeriod {
		t.Errorf("expected period, got %q", cfg.Separator)
	}
	if g := cfg.Separator.Glyph(); g != "." {
		t.Errorf("expected period glyph, got %q", g)
	}
}

func TestLoad_BadSeparatorWarns(t *testing.T) {
	cfg, out := load(t, map[string]pandoc.MetaValue{
		"tablenos-caption-separator": inlines("comma"),
	})
	if cfg.Separator != SepColon {
		t.Errorf("bad separator should keep the default, got %q", cfg.Separator)
	}
	if !strings.Contains(out, "bad caption separator") {
		t.Errorf("expected a warning, got %q", out)
	}
}

func TestLoad_Cleveref(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"xnos-cleveref": pandoc.MetaBool(true),
	})
	if !cfg.Cleveref {
		t.Error("expected cleveref enabled")
	}
}

func TestLoad_BoolFromText(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"tablenos-number-by-section": inlines("On"),
	})
	if !cfg.NumberBySection {
		t.Error("expected textual boolean to parse")
	}
}

func TestLoad_PlusNameDrivesStarName(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"tablenos-plus-name": inlines("tabla"),
	})
	// A lone singular keeps the default plural.
	if cfg.PlusName != [2]string{"tabla", "tables"} {
		t.Errorf("unexpected plus names: %v", cfg.PlusName)
	}
	if cfg.StarName != [2]string{"Tabla", "Tables"} {
		t.Errorf("expected star names to follow titlecased, got %v", cfg.StarName)
	}
	if !cfg.PlusNameChanged {
		t.Error("expected PlusNameChanged")
	}
}

func TestLoad_PlusNamePair(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"tablenos-plus-name": &pandoc.MetaList{Entries: []pandoc.MetaValue{
			inlines("tab."), inlines("tabs."),
		}},
	})
	if cfg.PlusName != [2]string{"tab.", "tabs."} {
		t.Errorf("unexpected plus names: %v", cfg.PlusName)
	}
}

func TestLoad_NumberOffset(t *testing.T) {
	cfg, _ := load(t, map[string]pandoc.MetaValue{
		"tablenos-number-offset": inlines("2"),
	})
	if cfg.SectionOffset != 2 {
		t.Errorf("expected offset 2, got %d", cfg.SectionOffset)
	}
}

func TestLoad_UnknownKeyWarns(t *testing.T) {
	_, out := load(t, map[string]pandoc.MetaValue{
		"tablenos-frobnicate": inlines("yes"),
	})
	if !strings.Contains(out, "unknown meta variable") {
		t.Errorf("expected unknown-key warning, got %q", out)
	}
}

func TestLoad_WarningLevelAdjustsReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := report.New(report.LevelSome, &buf)
	Load(map[string]pandoc.MetaValue{
		"tablenos-warning-level": inlines("0"),
	}, rep)
	rep.Warnf(report.LevelSome, "should be suppressed")
	rep.Flush()
	if buf.Len() != 0 {
		t.Errorf("expected quiet reporter, got %q", buf.String())
	}
}

func TestTitlecase(t *testing.T) {
	if got := Titlecase("tabla"); got != "Tabla" {
		t.Errorf("expected Tabla, got %q", got)
	}
	if got := Titlecase(""); got != "" {
		t.Errorf("expected empty passthrough, got %q", got)
	}
}
