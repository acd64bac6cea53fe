package markdown

import (
	"testing"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
)

const sample = `# Results

The numbers are in @tbl:results below.

| Item | Count |
|------|-------|
| Foo  | 3     |
| Bar  | 5     |

: Result counts. {#tbl:results}
`

func TestConvert_Structure(t *testing.T) {
	doc, err := Convert([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected header, para, table; got %d blocks", len(doc.Blocks))
	}

	h, ok := doc.Blocks[0].(*pandoc.Header)
	if !ok {
		t.Fatalf("expected Header, got %T", doc.Blocks[0])
	}
	if h.Level != 1 || h.Attr.ID != "results" {
		t.Errorf("unexpected header: level=%d id=%q", h.Level, h.Attr.ID)
	}

	if _, ok := doc.Blocks[1].(*pandoc.Para); !ok {
		t.Errorf("expected Para, got %T", doc.Blocks[1])
	}
	if _, ok := doc.Blocks[2].(*pandoc.Table); !ok {
		t.Errorf("expected Table, got %T", doc.Blocks[2])
	}
}

func TestConvert_CitationLifted(t *testing.T) {
	doc, err := Convert([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	para := doc.Blocks[1].(*pandoc.Para)
	var found *pandoc.Cite
	for _, in := range para.Inlines {
		if c, ok := in.(*pandoc.Cite); ok {
			found = c
		}
	}
	if found == nil {
		t.Fatal("expected a citation in the paragraph")
	}
	if found.Citations[0].ID != "tbl:results" {
		t.Errorf("expected tbl:results, got %q", found.Citations[0].ID)
	}
	if got := pandoc.Stringify(found.Inlines); got != "@tbl:results" {
		t.Errorf("expected verbatim citation text, got %q", got)
	}
}

func TestConvert_CaptionBoundToTable(t *testing.T) {
	doc, err := Convert([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl := doc.Blocks[2].(*pandoc.Table)
	view, _ := pandoc.TableOf(tbl)
	if got := pandoc.Stringify(view.CaptionInlines()); got != "Result counts. {#tbl:results}" {
		t.Errorf("unexpected caption: %q", got)
	}
	if len(tbl.Head.Rows) != 1 {
		t.Errorf("expected 1 header row, got %d", len(tbl.Head.Rows))
	}
	if len(tbl.Bodies) != 1 || len(tbl.Bodies[0].Body) != 2 {
		t.Fatalf("unexpected body shape")
	}
	cell := tbl.Bodies[0].Body[0].Cells[0]
	if got := pandoc.Stringify(cell.Blocks[0].(*pandoc.Plain).Inlines); got != "Foo" {
		t.Errorf("expected Foo, got %q", got)
	}
}

func TestConvert_TableWithoutCaption(t *testing.T) {
	src := "| A |\n|---|\n| 1 |\n\nTrailing text.\n"
	doc, err := Convert([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl, ok := doc.Blocks[0].(*pandoc.Table)
	if !ok {
		t.Fatalf("expected Table, got %T", doc.Blocks[0])
	}
	if len(tbl.Caption.Long) != 0 {
		t.Errorf("expected no caption, got %v", tbl.Caption.Long)
	}
	if _, ok := doc.Blocks[1].(*pandoc.Para); !ok {
		t.Errorf("the following paragraph must not be eaten, got %T", doc.Blocks[1])
	}
}

func TestConvert_Encodes(t *testing.T) {
	doc, err := Convert([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := pandoc.Decode(out, nil); err != nil {
		t.Errorf("converted document does not round-trip: %v", err)
	}
}

func TestSlug(t *testing.T) {
	if got := slug("Results & Discussion"); got != "results-discussion" {
		t.Errorf("expected results-discussion, got %q", got)
	}
}
