package refs

import (
	"strings"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
)

// ValueInlines renders a target value as inline nodes, with the separator
// glyph appended. Tags that encode inline math become Math nodes. Both the
// numbering pass (captions) and the resolution pass (references, with an
// empty glyph) render through here, which keeps a caption and every
// reference to it lexically consistent.
func ValueInlines(t Target, glyph string) []pandoc.Inline {
	if t.IsMath() {
		math := strings.ReplaceAll(t.MathText(), " ", `\ `)
		out := []pandoc.Inline{&pandoc.Math{Type: pandoc.InlineMath, Text: math}}
		if glyph != "" {
			out = append(out, &pandoc.Str{Text: glyph})
		}
		return out
	}
	return []pandoc.Inline{&pandoc.Str{Text: t.String() + glyph}}
}
