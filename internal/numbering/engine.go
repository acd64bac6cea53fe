// Package numbering implements the first pass over the document: it assigns
// numbers or tags to labeled tables, rewrites their captions, and populates
// the reference table the resolution pass reads.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tomduck/pandoc-tablenos/internal/attrs"
	"github.com/tomduck/pandoc-tablenos/internal/config"
	"github.com/tomduck/pandoc-tablenos/internal/outfmt"
	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/refs"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

// LabelPattern is the label grammar: the tbl: prefix and an identifier
// suffix. A bare "tbl:" is a present-but-anonymous label.
var LabelPattern = regexp.MustCompile(`^tbl:[\w/-]*$`)

// Engine drives Pass 1. It is created fresh per document; all counters and
// flags live here, so transforming several documents in one process is safe.
type Engine struct {
	format string
	cfg    config.Config
	refs   *refs.Table
	rep    *report.Reporter

	cursec  string // section of the previous table, "" before the first
	counter int    // last assigned ordinal in the current scope
	secnum  int    // running section number (level-1 headers seen + offset)

	// Flags consumed by the support-markup emission.
	HasUnnumbered bool
	HasTagged     bool

	// Unnumbered tables found during the walk; WrapUnnumbered brackets
	// them afterwards, once it is known whether the document uses
	// references at all.
	pending map[pandoc.Block]bool
}

// New returns an engine for one document transform.
func New(format string, cfg config.Config, table *refs.Table, rep *report.Reporter) *Engine {
	return &Engine{
		format:  format,
		cfg:     cfg,
		refs:    table,
		rep:     rep,
		secnum:  cfg.SectionOffset,
		pending: make(map[pandoc.Block]bool),
	}
}

// Visitor returns the Pass 1 visitor: it tracks section boundaries at
// level-1 headers and processes every table node.
func (e *Engine) Visitor() pandoc.Visitor {
	return func(el pandoc.Element) pandoc.Outcome {
		if h, ok := el.(*pandoc.Header); ok {
			if h.Level == 1 && !h.Attr.HasClass("unnumbered") {
				e.secnum++
			}
			return pandoc.Unchanged()
		}
		b, ok := el.(pandoc.Block)
		if !ok {
			return pandoc.Unchanged()
		}
		view, ok := pandoc.TableOf(b)
		if !ok {
			return pandoc.Unchanged()
		}
		return e.processTable(view)
	}
}

func (e *Engine) processTable(view *pandoc.TableShape) pandoc.Outcome {
	caption := view.CaptionInlines()

	// A caption already carrying a label macro was processed by an earlier
	// run; touching it again would double the markup.
	if outfmt.IsLaTeX(e.format) && endsWithLabel(caption) {
		return pandoc.Unchanged()
	}

	start := attrs.Find(caption)
	if start < 0 {
		return e.unnumbered(view)
	}
	a, end, err := attrs.Extract(caption, start)
	if err != nil {
		e.rep.Warnf(report.LevelAll, "table caption has a malformed attribute clause; treating the table as unnumbered")
		return e.unnumbered(view)
	}

	// The clause is consumed regardless of what it contained.
	caption = spliceOut(caption, start, end)
	view.SetCaptionInlines(caption)

	if !LabelPattern.MatchString(a.ID) {
		if a.ID != "" {
			e.rep.Warnf(report.LevelAll, "identifier %q does not start with tbl:; treating the table as unnumbered", a.ID)
		}
		return e.unnumbered(view)
	}

	unreferenceable := false
	if a.ID == "tbl:" {
		// Anonymous label: number the table, but nothing can cite it.
		a.ID = "tbl:" + uuid.NewString()
		unreferenceable = true
	}

	section := strconv.Itoa(e.secnum)
	if section != e.cursec {
		e.cursec = section
		if e.cfg.NumberBySection {
			e.counter = 0
		}
	}

	tag, tagged := a.Get("tag")
	if !tagged && e.cfg.NumberBySection && outfmt.NeedsComputedSectionTag(e.format) {
		// The processor numbers sections natively for these formats but
		// keeps a flat table counter; synthesize the section-scoped tag it
		// would have produced.
		e.counter++
		tag = section + "." + strconv.Itoa(e.counter)
		tagged = true
	}

	target := refs.Target{Section: section}
	if tagged {
		target.Tagged = true
		target.Tag = tag
		e.HasTagged = true
	} else {
		e.counter++
		target.Number = e.counter
	}
	if dup := e.refs.Set(a.ID, target); dup {
		e.rep.Warnf(report.LevelSome, "duplicate label %q: the last occurrence wins", a.ID)
	}

	e.rewriteCaption(view, a.ID, target, unreferenceable)
	if !unreferenceable {
		view.SetID(a.ID)
	}

	return e.markup(view, a.ID, target, unreferenceable)
}

// unnumbered handles tables with no usable label: they keep their caption
// verbatim. For LaTeX they are later bracketed in the environment that
// suppresses the caption prefix, so their captions do not read "Table N:".
func (e *Engine) unnumbered(view *pandoc.TableShape) pandoc.Outcome {
	e.HasUnnumbered = true
	if outfmt.IsLaTeX(e.format) {
		e.pending[view.Node()] = true
	}
	return pandoc.Unchanged()
}

// LaTeX environment markers for unnumbered tables.
const (
	beginNoPrefix = `\begin{tablenos:no-prefix-table-caption}`
	endNoPrefix   = `\end{tablenos:no-prefix-table-caption}`
)

// WrapUnnumbered brackets the unnumbered LaTeX tables found during the
// walk. It runs after the walk because the wrap is only wanted when the
// document actually numbers something (the supporting environment is only
// emitted then), and because an already-bracketed table must be left alone,
// which takes sibling context a tree visitor does not have.
func (e *Engine) WrapUnnumbered(blocks []pandoc.Block) []pandoc.Block {
	if len(e.pending) == 0 || e.refs.Len() == 0 {
		return blocks
	}
	blocks = e.wrapInList(blocks)
	return pandoc.WalkBlocks(blocks, func(el pandoc.Element) pandoc.Outcome {
		pandoc.MapBlockLists(el, e.wrapInList)
		return pandoc.Unchanged()
	})
}

func (e *Engine) wrapInList(blocks []pandoc.Block) []pandoc.Block {
	out := make([]pandoc.Block, 0, len(blocks))
	for i, b := range blocks {
		if !e.pending[b] {
			out = append(out, b)
			continue
		}
		if prev, ok := previousRaw(blocks, i); ok && prev == beginNoPrefix {
			out = append(out, b)
			continue
		}
		out = append(out,
			&pandoc.RawBlock{Format: "tex", Text: beginNoPrefix},
			b,
			&pandoc.RawBlock{Format: "tex", Text: endNoPrefix},
		)
	}
	return out
}

func previousRaw(blocks []pandoc.Block, i int) (string, bool) {
	if i == 0 {
		return "", false
	}
	if rb, ok := blocks[i-1].(*pandoc.RawBlock); ok && rb.Format == "tex" {
		return rb.Text, true
	}
	return "", false
}

func endsWithLabel(caption []pandoc.Inline) bool {
	if len(caption) == 0 {
		return false
	}
	ri, ok := caption[len(caption)-1].(*pandoc.RawInline)
	return ok && ri.Format == "tex" && strings.HasPrefix(ri.Text, `\label{tbl:`)
}

// rewriteCaption prepends the rendered target to the caption, or appends a
// label macro for formats that number captions themselves.
func (e *Engine) rewriteCaption(view *pandoc.TableShape, label string, target refs.Target, unreferenceable bool) {
	caption := view.CaptionInlines()

	if outfmt.IsLaTeX(e.format) {
		// The processor hard-codes no number; it numbers natively. Only the
		// label needs attaching.
		if !unreferenceable {
			caption = append(caption, &pandoc.RawInline{Format: "tex", Text: fmt.Sprintf(`\label{%s}`, label)})
			view.SetCaptionInlines(caption)
		}
		return
	}

	prefix := []pandoc.Inline{&pandoc.Str{Text: e.cfg.CaptionName}, &pandoc.Space{}}
	prefix = append(prefix, refs.ValueInlines(target, e.cfg.Separator.Glyph())...)

	if outfmt.IsHTML(e.format) {
		prefix = append([]pandoc.Inline{&pandoc.RawInline{Format: "html", Text: "<span>"}}, prefix...)
		prefix = append(prefix, &pandoc.RawInline{Format: "html", Text: "</span>"})
	}

	if len(caption) > 0 {
		switch e.cfg.Separator {
		case config.SepNewline:
			prefix = append(prefix, &pandoc.LineBreak{})
		case config.SepNone, config.SepQuad:
			// The glyph (or its absence) is the whole separator.
		default:
			prefix = append(prefix, &pandoc.Space{})
		}
	}

	view.SetCaptionInlines(append(prefix, caption...))
}

// markup brackets the table with the raw blocks its output format needs for
// anchoring and tag rendering.
func (e *Engine) markup(view *pandoc.TableShape, label string, target refs.Target, unreferenceable bool) pandoc.Outcome {
	node := view.Node()
	switch {
	case outfmt.IsLaTeX(e.format):
		if target.Tagged {
			return pandoc.Splice(
				&pandoc.RawBlock{Format: "tex", Text: fmt.Sprintf(`\begin{tablenos:tagged-table}[%s]`, target.Tag)},
				node,
				&pandoc.RawBlock{Format: "tex", Text: `\end{tablenos:tagged-table}`},
			)
		}
	case outfmt.IsHTML(e.format):
		if !unreferenceable {
			anchor := &pandoc.RawBlock{Format: "html", Text: fmt.Sprintf(`<a name=%q></a>`, label)}
			return pandoc.Splice(anchor, node)
		}
	case e.format == "docx":
		if !unreferenceable {
			start := &pandoc.RawBlock{
				Format: "openxml",
				Text:   fmt.Sprintf(`<w:bookmarkStart w:id="0" w:name=%q/>`, label),
			}
			end := &pandoc.RawBlock{Format: "openxml", Text: `<w:bookmarkEnd w:id="0"/>`}
			return pandoc.Splice(start, node, end)
		}
	}
	return pandoc.Unchanged()
}

// spliceOut removes [start, end) from an inline run, together with any
// whitespace left dangling before the removed clause.
func spliceOut(inlines []pandoc.Inline, start, end int) []pandoc.Inline {
	head := inlines[:start]
	for len(head) > 0 {
		switch head[len(head)-1].(type) {
		case *pandoc.Space, *pandoc.SoftBreak:
			head = head[:len(head)-1]
			continue
		}
		break
	}
	return append(head, inlines[end:]...)
}
