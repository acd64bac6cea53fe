// Package texblocks appends the LaTeX support markup the transformed
// document relies on to the header-includes metadata field. Every block is
// conditional: nothing is written unless the document actually contains a
// resolved reference and a feature that needs the block.
package texblocks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomduck/pandoc-tablenos/internal/config"
	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

// NoPrefixEnv disables the caption prefix for unnumbered tables. The table
// counter is redirected to a private one so hyperref sees unique internal
// names, then restored on exit.
const NoPrefixEnv = `%% pandoc-tablenos: environment to disable table caption prefixes
\makeatletter
\newcounter{tableno}
\newenvironment{tablenos:no-prefix-table-caption}{
  \caption@ifcompatibility{}{
    \let\oldthetable\thetable
    \let\oldtheHtable\theHtable
    \renewcommand{\thetable}{tableno:\thetableno}
    \renewcommand{\theHtable}{tableno:\thetableno}
    \stepcounter{tableno}
    \captionsetup{labelformat=empty}
  }
}{
  \caption@ifcompatibility{}{
    \captionsetup{labelformat=default}
    \let\thetable\oldthetable
    \let\theHtable\oldtheHtable
    \addtocounter{table}{-1}
  }
}
\makeatother
`

// TaggedEnv substitutes an explicit tag for the table counter within its
// body, then restores the counter.
const TaggedEnv = `%% pandoc-tablenos: environment for tagged tables
\newenvironment{tablenos:tagged-table}[1][]{
  \let\oldthetable\thetable
  \let\oldtheHtable\theHtable
  \renewcommand{\thetable}{#1}
  \renewcommand{\theHtable}{#1}
}{
  \let\thetable\oldthetable
  \let\theHtable\oldtheHtable
  \addtocounter{table}{-1}
}
`

var (
	cleverefPkgPattern = regexp.MustCompile(`\\usepackage(\[[\w\s,]*\])?\{cleveref\}`)
	captionPkgPattern  = regexp.MustCompile(`\\usepackage(\[[\w\s,]*\])?\{caption\}`)
)

// Flags carries the document facts gathered by the two passes that decide
// which blocks are needed.
type Flags struct {
	UsedCleveref  bool
	HasUnnumbered bool
	HasTagged     bool
	HaveRefs      bool
}

// Inject appends the required tex blocks to header-includes. Blocks already
// present, including a cleveref or caption usepackage the author supplied
// themselves, are not duplicated.
func Inject(meta map[string]pandoc.MetaValue, cfg config.Config, fl Flags, rep *report.Reporter) {
	if !fl.HaveRefs {
		return
	}

	wrote := false
	add := func(tex string, guard *regexp.Regexp) {
		if appendTex(meta, tex, guard) {
			wrote = true
		}
	}

	if fl.UsedCleveref {
		opts := ""
		if cfg.Capitalise {
			opts = "[capitalise]"
		}
		add(fmt.Sprintf("%%%% pandoc-tablenos: required package\n\\usepackage%s{cleveref}\n", opts), cleverefPkgPattern)
	}
	if fl.HasUnnumbered {
		add("%% pandoc-tablenos: required package\n\\usepackage{caption}\n", captionPkgPattern)
	}
	if cfg.PlusNameChanged {
		add(fmt.Sprintf("%%%% pandoc-tablenos: change cref names\n\\crefname{table}{%s}{%s}\n", cfg.PlusName[0], cfg.PlusName[1]), nil)
	}
	if cfg.StarNameChanged {
		add(fmt.Sprintf("%%%% pandoc-tablenos: change Cref names\n\\Crefname{table}{%s}{%s}\n", cfg.StarName[0], cfg.StarName[1]), nil)
	}
	if fl.HasUnnumbered {
		add(NoPrefixEnv, nil)
	}
	if fl.HasTagged {
		add(TaggedEnv, nil)
	}
	if cfg.CaptionNameChanged {
		add(fmt.Sprintf("%%%% pandoc-tablenos: change the caption name\n\\renewcommand{\\tablename}{%s}\n", cfg.CaptionName), nil)
	}
	if cfg.NumberBySection {
		add("%% pandoc-tablenos: number tables by section\n\\numberwithin{table}{section}\n", nil)
	}

	if wrote {
		rep.Warnf(report.LevelAll, "wrote blocks to header-includes; with --include-in-header you must include these yourself")
	}
}

// appendTex adds one tex block unless the guard pattern, or the block text
// itself, already occurs in header-includes. Reports whether it wrote.
func appendTex(meta map[string]pandoc.MetaValue, tex string, guard *regexp.Regexp) bool {
	existing := existingTex(meta["header-includes"])
	if strings.Contains(existing, strings.TrimSpace(tex)) {
		return false
	}
	if guard != nil && guard.MatchString(existing) {
		return false
	}

	block := &pandoc.MetaBlocks{Blocks: []pandoc.Block{&pandoc.RawBlock{Format: "tex", Text: tex}}}
	switch v := meta["header-includes"].(type) {
	case nil:
		meta["header-includes"] = &pandoc.MetaList{Entries: []pandoc.MetaValue{block}}
	case *pandoc.MetaList:
		v.Entries = append(v.Entries, block)
	default:
		meta["header-includes"] = &pandoc.MetaList{Entries: []pandoc.MetaValue{v, block}}
	}
	return true
}

// existingTex flattens current header-includes entries to searchable text.
func existingTex(v pandoc.MetaValue) string {
	var b strings.Builder
	collect(&b, v)
	return b.String()
}

func collect(b *strings.Builder, v pandoc.MetaValue) {
	switch v := v.(type) {
	case *pandoc.MetaList:
		for _, item := range v.Entries {
			collect(b, item)
		}
	case *pandoc.MetaBlocks:
		for _, blk := range v.Blocks {
			if raw, ok := blk.(*pandoc.RawBlock); ok {
				b.WriteString(raw.Text)
				b.WriteByte('\n')
			}
		}
	case *pandoc.MetaInlines:
		for _, in := range v.Inlines {
			if raw, ok := in.(*pandoc.RawInline); ok {
				b.WriteString(raw.Text)
				b.WriteByte('\n')
			}
		}
	case pandoc.MetaString:
		b.WriteString(string(v))
		b.WriteByte('\n')
	}
}
