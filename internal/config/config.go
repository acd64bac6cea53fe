// Package config reads the filter's settings from document metadata. The
// record is populated once before the numbering pass and never mutated
// afterward; both passes read it.
package config

import (
	"strconv"
	"strings"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

// Separator identifies the glyph placed between the caption value and the
// caption text.
type Separator string

const (
	SepNone    Separator = "none"
	SepColon   Separator = "colon"
	SepPeriod  Separator = "period"
	SepSpace   Separator = "space"
	SepQuad    Separator = "quad"
	SepNewline Separator = "newline"
)

// Glyph returns the separator character appended to the caption value.
// Newline has no glyph; it renders as a line break node instead.
func (s Separator) Glyph() string {
	switch s {
	case SepColon:
		return ":"
	case SepPeriod:
		return "."
	case SepQuad:
		return " "
	default:
		return ""
	}
}

// Config is the process-lifetime filter configuration.
type Config struct {
	CaptionName     string
	Separator       Separator
	Cleveref        bool
	Capitalise      bool
	PlusName        [2]string // singular, plural: mid-sentence references
	StarName        [2]string // singular, plural: sentence-start references
	NumberBySection bool
	SectionOffset   int
	WarningLevel    int

	// Change flags drive conditional support-markup emission.
	CaptionNameChanged bool
	PlusNameChanged    bool
	StarNameChanged    bool
}

// Default returns the configuration used when the document sets nothing.
func Default() Config {
	return Config{
		CaptionName:  "Table",
		Separator:    SepColon,
		PlusName:     [2]string{"table", "tables"},
		StarName:     [2]string{"Table", "Tables"},
		WarningLevel: report.LevelSome,
	}
}

// knownKeys lists every metadata key this filter consumes. Other keys with
// the tablenos/xnos prefix are reported as unknown.
var knownKeys = map[string]bool{
	"tablenos-warning-level":     true,
	"xnos-warning-level":         true,
	"tablenos-caption-name":      true,
	"tablenos-caption-separator": true,
	"xnos-caption-separator":     true,
	"tablenos-cleveref":          true,
	"xnos-cleveref":              true,
	"tablenos-capitalise":        true,
	"tablenos-capitalize":        true,
	"xnos-capitalise":            true,
	"xnos-capitalize":            true,
	"tablenos-plus-name":         true,
	"tablenos-star-name":         true,
	"tablenos-number-by-section": true,
	"tablenos-number-sections":   true,
	"xnos-number-by-section":     true,
	"xnos-number-sections":       true,
	"tablenos-number-offset":     true,
	"xnos-number-offset":         true,
}

// Load builds the configuration from document metadata. Unrecognized
// tablenos-/xnos-prefixed keys warn but never abort.
func Load(meta map[string]pandoc.MetaValue, rep *report.Reporter) Config {
	cfg := Default()

	if n, ok := metaInt(meta, "tablenos-warning-level", "xnos-warning-level"); ok {
		cfg.WarningLevel = n
		rep.SetLevel(n)
	}

	for key := range meta {
		if (strings.HasPrefix(key, "tablenos") || strings.HasPrefix(key, "xnos")) && !knownKeys[key] {
			rep.Warnf(report.LevelSome, "unknown meta variable %q", key)
		}
	}

	if s, ok := metaText(meta, "tablenos-caption-name"); ok {
		cfg.CaptionNameChanged = s != cfg.CaptionName
		cfg.CaptionName = s
	}

	if s, ok := metaText(meta, "tablenos-caption-separator", "xnos-caption-separator"); ok {
		switch sep := Separator(s); sep {
		case SepNone, SepColon, SepPeriod, SepSpace, SepQuad, SepNewline:
			cfg.Separator = sep
		default:
			rep.Warnf(report.LevelSome, "bad caption separator %q", s)
		}
	}

	if b, ok := metaBool(meta, rep, "tablenos-cleveref", "xnos-cleveref"); ok {
		cfg.Cleveref = b
	}
	if b, ok := metaBool(meta, rep,
		"tablenos-capitalise", "tablenos-capitalize",
		"xnos-capitalise", "xnos-capitalize"); ok {
		cfg.Capitalise = b
	}

	if names, ok := metaNames(meta, rep, "tablenos-plus-name", cfg.PlusName); ok {
		cfg.PlusNameChanged = names != cfg.PlusName
		cfg.PlusName = names
		if cfg.PlusNameChanged {
			// Star names follow unless the author overrides them below.
			cfg.StarName = [2]string{Titlecase(names[0]), Titlecase(names[1])}
		}
	}
	if names, ok := metaNames(meta, rep, "tablenos-star-name", cfg.StarName); ok {
		cfg.StarNameChanged = names != cfg.StarName
		cfg.StarName = names
	}

	if b, ok := metaBool(meta, rep,
		"tablenos-number-by-section", "tablenos-number-sections",
		"xnos-number-by-section", "xnos-number-sections"); ok {
		cfg.NumberBySection = b
	}
	if n, ok := metaInt(meta, "tablenos-number-offset", "xnos-number-offset"); ok {
		cfg.SectionOffset = n
	}

	return cfg
}

// Titlecase upper-cases the first rune only; good enough for caption nouns.
func Titlecase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func metaText(meta map[string]pandoc.MetaValue, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			if s, ok := pandoc.MetaText(v); ok {
				return s, true
			}
		}
	}
	return "", false
}

func metaInt(meta map[string]pandoc.MetaValue, keys ...string) (int, bool) {
	if s, ok := metaText(meta, keys...); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func metaBool(meta map[string]pandoc.MetaValue, rep *report.Reporter, keys ...string) (bool, bool) {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			if b, ok := pandoc.MetaFlag(v); ok {
				return b, true
			}
			rep.Warnf(report.LevelSome, "%s: expected a boolean", key)
		}
	}
	return false, false
}

// metaNames reads a name override: a single string sets the singular form
// and keeps the current plural, a two-element list sets both.
func metaNames(meta map[string]pandoc.MetaValue, rep *report.Reporter, key string, current [2]string) ([2]string, bool) {
	v, ok := meta[key]
	if !ok {
		return [2]string{}, false
	}
	list, ok := pandoc.MetaStrings(v)
	if !ok || len(list) == 0 || len(list) > 2 {
		rep.Warnf(report.LevelSome, "%s: expected a name or [singular, plural] pair", key)
		return [2]string{}, false
	}
	if len(list) == 1 {
		return [2]string{list[0], current[1]}, true
	}
	return [2]string{list[0], list[1]}, true
}
