// Package markdown converts Markdown source into the document tree the
// filter consumes, without requiring a pandoc install. It covers the subset
// that matters for table numbering: headings, paragraphs, pipe tables, a
// caption line written directly under a table, and @tbl: citations in
// running text.
package markdown

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
)

// apiVersion is the schema Convert emits. Modern tables only; the legacy
// shape exists for documents produced by old pandoc, not by us.
var apiVersion = []int{1, 23, 1}

var citationPattern = regexp.MustCompile(`@tbl:[\w/-]+`)

// Convert parses Markdown into a document ready for filtering. A paragraph
// of the form ": caption text {#tbl:label}" immediately after a pipe table
// becomes that table's caption and attributes, mirroring how pandoc attaches
// table captions.
func Convert(src []byte) (*pandoc.Doc, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	doc := &pandoc.Doc{
		APIVersion: apiVersion,
		Meta:       map[string]pandoc.MetaValue{},
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			inl := inlinesOf(node, src)
			doc.Blocks = append(doc.Blocks, &pandoc.Header{
				Level:   node.Level,
				Attr:    pandoc.Attr{ID: slug(pandoc.Stringify(inl))},
				Inlines: inl,
			})
		case *extast.Table:
			tbl, err := convertTable(node, src)
			if err != nil {
				return nil, err
			}
			// A caption paragraph binds to the table it follows.
			if caption, ok := captionOf(n.NextSibling(), src); ok {
				applyCaption(tbl, caption)
				n = n.NextSibling()
			}
			doc.Blocks = append(doc.Blocks, tbl)
		case *ast.Paragraph:
			doc.Blocks = append(doc.Blocks, &pandoc.Para{Inlines: inlinesOf(node, src)})
		case *ast.ThematicBreak:
			doc.Blocks = append(doc.Blocks, &pandoc.HorizontalRule{})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			doc.Blocks = append(doc.Blocks, &pandoc.CodeBlock{Text: blockText(n, src)})
		default:
			if txt := blockText(n, src); txt != "" {
				doc.Blocks = append(doc.Blocks, &pandoc.Para{Inlines: words(txt)})
			}
		}
	}
	return doc, nil
}

// captionOf recognizes the caption paragraph form and returns its inlines
// with the leading colon stripped.
func captionOf(n ast.Node, src []byte) ([]pandoc.Inline, bool) {
	p, ok := n.(*ast.Paragraph)
	if !ok {
		return nil, false
	}
	inl := inlinesOf(p, src)
	if len(inl) == 0 {
		return nil, false
	}
	first, ok := inl[0].(*pandoc.Str)
	if !ok || !strings.HasPrefix(first.Text, ":") {
		return nil, false
	}
	first.Text = strings.TrimPrefix(first.Text, ":")
	if first.Text == "" {
		if len(inl) > 1 {
			inl = inl[1:]
		} else {
			return nil, false
		}
	}
	// Drop the space that followed the colon.
	if _, isSpace := inl[0].(*pandoc.Space); isSpace {
		inl = inl[1:]
	}
	return inl, true
}

// applyCaption installs the caption inlines verbatim. A trailing attribute
// clause stays as literal caption text; extracting it is the numbering
// pass's job, the same as when pandoc itself produced the document.
func applyCaption(tbl *pandoc.Table, caption []pandoc.Inline) {
	tbl.Caption.Long = []pandoc.Block{&pandoc.Plain{Inlines: caption}}
}

func convertTable(node *extast.Table, src []byte) (*pandoc.Table, error) {
	tbl := &pandoc.Table{}
	cols := 0
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *extast.TableHeader:
			tr := convertRow(r, src)
			if len(tr.Cells) > cols {
				cols = len(tr.Cells)
			}
			tbl.Head.Rows = append(tbl.Head.Rows, tr)
		case *extast.TableRow:
			tr := convertRow(r, src)
			if len(tr.Cells) > cols {
				cols = len(tr.Cells)
			}
			if len(tbl.Bodies) == 0 {
				tbl.Bodies = append(tbl.Bodies, &pandoc.TableBody{})
			}
			tbl.Bodies[0].Body = append(tbl.Bodies[0].Body, tr)
		}
	}
	tbl.ColSpecs = defaultColSpecs(cols)
	return tbl, nil
}

func convertRow(row ast.Node, src []byte) *pandoc.TableRow {
	tr := &pandoc.TableRow{}
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		c, ok := cell.(*extast.TableCell)
		if !ok {
			continue
		}
		tr.Cells = append(tr.Cells, &pandoc.TableCell{
			Align:   json.RawMessage(`{"t":"AlignDefault"}`),
			RowSpan: 1,
			ColSpan: 1,
			Blocks:  []pandoc.Block{&pandoc.Plain{Inlines: inlinesOf(c, src)}},
		})
	}
	return tr
}

func defaultColSpecs(n int) json.RawMessage {
	specs := make([]json.RawMessage, n)
	for i := range specs {
		specs[i] = json.RawMessage(`[{"t":"AlignDefault"},{"t":"ColWidthDefault"}]`)
	}
	out, _ := json.Marshal(specs)
	return out
}

// inlinesOf converts a goldmark inline run, splitting text into the
// Str/Space tokens pandoc produces and lifting @tbl: citations into Cite
// nodes.
func inlinesOf(n ast.Node, src []byte) []pandoc.Inline {
	var out []pandoc.Inline
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, words(string(node.Value(src)))...)
			if node.SoftLineBreak() {
				out = append(out, &pandoc.SoftBreak{})
			} else if node.HardLineBreak() {
				out = append(out, &pandoc.LineBreak{})
			}
		case *ast.Emphasis:
			inner := inlinesOf(node, src)
			if node.Level >= 2 {
				out = append(out, &pandoc.Strong{Inlines: inner})
			} else {
				out = append(out, &pandoc.Emph{Inlines: inner})
			}
		case *ast.CodeSpan:
			out = append(out, &pandoc.Code{Text: string(node.Text(src))})
		case *ast.Link:
			out = append(out, &pandoc.Link{
				Inlines: inlinesOf(node, src),
				Target:  pandoc.LinkTarget{URL: string(node.Destination), Title: string(node.Title)},
			})
		case *ast.AutoLink:
			url := string(node.URL(src))
			out = append(out, &pandoc.Link{
				Inlines: []pandoc.Inline{&pandoc.Str{Text: url}},
				Target:  pandoc.LinkTarget{URL: url},
			})
		default:
			if txt := string(node.Text(src)); txt != "" {
				out = append(out, words(txt)...)
			}
		}
	}
	return out
}

// words tokenizes plain text the way the JSON reader does, one Str per word
// with Space between, and turns embedded citations into Cite nodes.
func words(s string) []pandoc.Inline {
	var out []pandoc.Inline
	for i, w := range strings.Fields(s) {
		if i > 0 {
			out = append(out, &pandoc.Space{})
		}
		out = append(out, wordInlines(w)...)
	}
	return out
}

// wordInlines splits one whitespace-free token around an embedded citation.
func wordInlines(w string) []pandoc.Inline {
	loc := citationPattern.FindStringIndex(w)
	if loc == nil {
		return []pandoc.Inline{&pandoc.Str{Text: w}}
	}
	var out []pandoc.Inline
	if loc[0] > 0 {
		out = append(out, &pandoc.Str{Text: w[:loc[0]]})
	}
	label := w[loc[0]+1 : loc[1]]
	out = append(out, &pandoc.Cite{
		Citations: []*pandoc.Citation{{ID: label, Mode: pandoc.AuthorInText}},
		Inlines:   []pandoc.Inline{&pandoc.Str{Text: w[loc[0]:loc[1]]}},
	})
	if loc[1] < len(w) {
		out = append(out, &pandoc.Str{Text: w[loc[1]:]})
	}
	return out
}

func blockText(n ast.Node, src []byte) string {
	var sb strings.Builder
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

var slugStrip = regexp.MustCompile(`[^a-z0-9 -]`)

// slug derives a header identifier the way pandoc's auto_identifiers
// extension does for plain titles.
func slug(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), "-")
	return s
}
