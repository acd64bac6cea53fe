// Package filter ties the pieces together: decode the document, load the
// metadata settings, number the tables, resolve the references, attach the
// LaTeX support markup, and encode the result.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomduck/pandoc-tablenos/internal/config"
	"github.com/tomduck/pandoc-tablenos/internal/numbering"
	"github.com/tomduck/pandoc-tablenos/internal/outfmt"
	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
	"github.com/tomduck/pandoc-tablenos/internal/refs"
	"github.com/tomduck/pandoc-tablenos/internal/report"
	"github.com/tomduck/pandoc-tablenos/internal/resolve"
	"github.com/tomduck/pandoc-tablenos/internal/texblocks"
)

// Options selects the transform variant.
type Options struct {
	// Format is the writer name pandoc passes as the filter's argument
	// ("latex", "html5", "docx", ...).
	Format string

	// PandocVersion, when set, supplies the host pandoc version for
	// documents whose JSON omits pandoc-api-version.
	PandocVersion string
}

// Run transforms one JSON-encoded document. Warnings accumulate in rep; the
// caller flushes them after the output is written.
func Run(input []byte, opts Options, rep *report.Reporter) ([]byte, error) {
	doc, err := pandoc.Decode(input, apiFallback(opts.PandocVersion))
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	cfg := config.Load(doc.Meta, rep)
	table := refs.New()

	eng := numbering.New(opts.Format, cfg, table, rep)
	doc.Blocks = pandoc.WalkBlocks(doc.Blocks, eng.Visitor())
	doc.Blocks = eng.WrapUnnumbered(doc.Blocks)

	res := resolve.New(opts.Format, cfg, table, rep)
	doc.Blocks = pandoc.WalkBlocks(doc.Blocks, res.RepairVisitor(), res.ReplaceVisitor())

	if outfmt.IsLaTeX(opts.Format) {
		texblocks.Inject(doc.Meta, cfg, texblocks.Flags{
			UsedCleveref:  res.UsedCleveref,
			HasUnnumbered: eng.HasUnnumbered,
			HasTagged:     eng.HasTagged,
			HaveRefs:      table.Len() > 0,
		}, rep)
	}

	out, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// apiFallback maps a pandoc release to the API version its JSON speaks, for
// inputs predating the pandoc-api-version envelope field or passed through
// tools that strip it.
func apiFallback(pandocVersion string) []int {
	major, minor, ok := splitVersion(pandocVersion)
	if !ok {
		return nil
	}
	switch {
	case major < 2:
		return []int{1, 17}
	case major == 2 && minor < 11:
		return []int{1, 20}
	case major == 2:
		return []int{1, 22}
	default:
		return []int{1, 23}
	}
}

func splitVersion(s string) (major, minor int, ok bool) {
	fields := strings.SplitN(s, ".", 3)
	if len(fields) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
