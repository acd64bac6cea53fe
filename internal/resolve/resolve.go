// Package resolve implements the second pass over the document: it locates
// table citations and substitutes format-appropriate reference text. It runs
// only after the numbering pass has fully populated the reference table, so
// forward references resolve like any other.
package resolve

import (
	"fmt"
	"strings"

	"github.com/tomduck/pandoc-tablenos/internal/config"
	"github.com/tomduck/pandoc-tablenos/internal/numbering"
	"github.com/tomduck/pandoc-tablenos/internal/outfmt"
	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/refs"
	"github.com/tomduck/pandoc-tablenos/internal/report"
)

// Resolver drives Pass 2. Like the numbering engine it is created fresh per
// document.
type Resolver struct {
	format string
	cfg    config.Config
	refs   *refs.Table
	rep    *report.Reporter

	// UsedCleveref records that a clever-reference macro was emitted, which
	// obliges the support markup to pull in the cleveref package.
	UsedCleveref bool
}

// New returns a resolver for one document transform.
func New(format string, cfg config.Config, table *refs.Table, rep *report.Reporter) *Resolver {
	return &Resolver{format: format, cfg: cfg, refs: table, rep: rep}
}

// RepairVisitor rejoins reference text that an upstream bare-URI autolinker
// split across nodes, and strips literal braces an author placed around a
// citation for visual grouping. It must run before ReplaceVisitor at each
// node.
func (r *Resolver) RepairVisitor() pandoc.Visitor {
	return func(el pandoc.Element) pandoc.Outcome {
		pandoc.MapInlineLists(el, func(inlines []pandoc.Inline) []pandoc.Inline {
			return stripBraces(rejoinSplit(inlines))
		})
		return pandoc.Unchanged()
	}
}

// ReplaceVisitor substitutes resolvable citations with rendered reference
// text or native cross-reference macros.
func (r *Resolver) ReplaceVisitor() pandoc.Visitor {
	return func(el pandoc.Element) pandoc.Outcome {
		pandoc.MapInlineLists(el, r.replaceInList)
		return pandoc.Unchanged()
	}
}

// rejoinSplit repairs the autolink hazard: "@tbl:results" inside braces is
// parsed by the host's bare-URI reader as text ending in "@" followed by a
// Link whose target is the label. The pieces are rebuilt into a citation.
func rejoinSplit(inlines []pandoc.Inline) []pandoc.Inline {
	out := make([]pandoc.Inline, 0, len(inlines))
	for _, in := range inlines {
		ln, ok := in.(*pandoc.Link)
		if !ok {
			out = append(out, in)
			continue
		}
		label := pandoc.Stringify(ln.Inlines)
		if !numbering.LabelPattern.MatchString(label) || len(out) == 0 {
			out = append(out, in)
			continue
		}
		prev, ok := out[len(out)-1].(*pandoc.Str)
		if !ok || !strings.HasSuffix(prev.Text, "@") {
			out = append(out, in)
			continue
		}
		prev.Text = strings.TrimSuffix(prev.Text, "@")
		if prev.Text == "" {
			out = out[:len(out)-1]
		}
		out = append(out, &pandoc.Cite{
			Citations: []*pandoc.Citation{{ID: label, Mode: pandoc.AuthorInText}},
			Inlines:   []pandoc.Inline{&pandoc.Str{Text: "@" + label}},
		})
	}
	return out
}

// stripBraces removes a pair of literal braces immediately bracketing a
// table citation: Str("...{") Cite Str("}...") becomes Str("...") Cite
// Str("...").
func stripBraces(inlines []pandoc.Inline) []pandoc.Inline {
	out := make([]pandoc.Inline, 0, len(inlines))
	for i := 0; i < len(inlines); i++ {
		cite, ok := inlines[i].(*pandoc.Cite)
		if !ok || !citesTable(cite) || len(out) == 0 || i+1 >= len(inlines) {
			out = append(out, inlines[i])
			continue
		}
		prev, pok := out[len(out)-1].(*pandoc.Str)
		next, nok := inlines[i+1].(*pandoc.Str)
		if !pok || !nok || !strings.HasSuffix(prev.Text, "{") || !strings.HasPrefix(next.Text, "}") {
			out = append(out, inlines[i])
			continue
		}
		prev.Text = strings.TrimSuffix(prev.Text, "{")
		if prev.Text == "" {
			out = out[:len(out)-1]
		}
		out = append(out, cite)
		next.Text = strings.TrimPrefix(next.Text, "}")
		if next.Text != "" {
			out = append(out, next)
		}
		i++
	}
	return out
}

func citesTable(c *pandoc.Cite) bool {
	return len(c.Citations) == 1 && numbering.LabelPattern.MatchString(c.Citations[0].ID)
}

// Reference modifiers, written as the character preceding the "@".
const (
	modNone = 0
	modPlus = '+' // mid-sentence name ("table 1")
	modStar = '*' // sentence-start name ("Table 1")
	modBang = '!' // bare value ("1")
)

func (r *Resolver) replaceInList(inlines []pandoc.Inline) []pandoc.Inline {
	out := make([]pandoc.Inline, 0, len(inlines))
	for _, in := range inlines {
		cite, ok := in.(*pandoc.Cite)
		if !ok || !citesTable(cite) {
			if c, isCite := in.(*pandoc.Cite); isCite && hasTableCitation(c) {
				r.rep.Warnf(report.LevelAll, "citation lists with table references are not resolved")
			}
			out = append(out, in)
			continue
		}
		label := cite.Citations[0].ID
		target, found := r.refs.Get(label)
		if !found {
			r.rep.Warnf(report.LevelSome, "no target found for reference @%s", label)
			out = append(out, in)
			continue
		}

		// The modifier rides as the trailing character of the preceding
		// text node; it is consumed along with the citation.
		modifier := modNone
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*pandoc.Str); ok && prev.Text != "" {
				switch c := prev.Text[len(prev.Text)-1]; c {
				case modPlus, modStar, modBang:
					modifier = int(c)
					prev.Text = prev.Text[:len(prev.Text)-1]
					if prev.Text == "" {
						out = out[:len(out)-1]
					}
				}
			}
		}

		out = append(out, r.render(label, target, modifier)...)
	}
	return out
}

func hasTableCitation(c *pandoc.Cite) bool {
	for _, cit := range c.Citations {
		if numbering.LabelPattern.MatchString(cit.ID) {
			return true
		}
	}
	return false
}

// render produces the replacement inlines for one resolved citation.
func (r *Resolver) render(label string, target refs.Target, modifier int) []pandoc.Inline {
	if outfmt.IsLaTeX(r.format) {
		macro := `\ref`
		switch {
		case modifier == modStar:
			macro = `\Cref`
			r.UsedCleveref = true
		case modifier == modPlus || (modifier == modNone && r.cfg.Cleveref):
			macro = `\cref`
			r.UsedCleveref = true
		}
		return []pandoc.Inline{&pandoc.RawInline{Format: "tex", Text: fmt.Sprintf("%s{%s}", macro, label)}}
	}

	value := refs.ValueInlines(target, "")
	if outfmt.IsHTML(r.format) {
		value = []pandoc.Inline{&pandoc.Link{
			Inlines: value,
			Target:  pandoc.LinkTarget{URL: "#" + label},
		}}
	}

	name := ""
	switch {
	case modifier == modStar:
		name = r.cfg.StarName[0]
	case modifier == modPlus || (modifier == modNone && r.cfg.Cleveref):
		name = r.cfg.PlusName[0]
		if r.cfg.Capitalise && !r.cfg.PlusNameChanged {
			name = config.Titlecase(name)
		}
	}
	if name == "" {
		return value
	}
	return append([]pandoc.Inline{&pandoc.Str{Text: name}, &pandoc.Space{}}, value...)
}
