package pandoc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const modernDoc = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {
    "tablenos-cleveref": {"t": "MetaBool", "c": true},
    "title": {"t": "MetaInlines", "c": [{"t": "Str", "c": "Test"}]}
  },
  "blocks": [
    {"t": "Para", "c": [
      {"t": "Str", "c": "See"},
      {"t": "Space"},
      {"t": "Cite", "c": [
        [{"citationId": "tbl:results", "citationPrefix": [], "citationSuffix": [],
          "citationMode": {"t": "AuthorInText"}, "citationNoteNum": 0, "citationHash": 0}],
        [{"t": "Str", "c": "@tbl:results"}]
      ]}
    ]},
    {"t": "Table", "c": [
      ["", [], []],
      [null, [{"t": "Plain", "c": [{"t": "Str", "c": "Results."}]}]],
      [[{"t": "AlignDefault"}, {"t": "ColWidthDefault"}]],
      [["", [], []], [[["", [], []], [[["", [], []], {"t": "AlignDefault"}, 1, 1, [{"t": "Plain", "c": [{"t": "Str", "c": "x"}]}]]]]]],
      [[["", [], []], 0, [], [[["", [], []], [[["", [], []], {"t": "AlignDefault"}, 1, 1, [{"t": "Plain", "c": [{"t": "Str", "c": "1"}]}]]]]]]],
      [["", [], []], []]
    ]}
  ]
}`

const legacyDoc = `{
  "pandoc-api-version": [1, 20],
  "meta": {},
  "blocks": [
    {"t": "Table", "c": [
      [{"t": "Str", "c": "Results."}],
      [{"t": "AlignDefault"}],
      [0.0],
      [[{"t": "Plain", "c": [{"t": "Str", "c": "x"}]}]],
      [[[{"t": "Plain", "c": [{"t": "Str", "c": "1"}]}]]]
    ]}
  ]
}`

func TestDecode_ModernTable(t *testing.T) {
	doc, err := Decode([]byte(modernDoc), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}

	para, ok := doc.Blocks[0].(*Para)
	if !ok {
		t.Fatalf("expected Para, got %T", doc.Blocks[0])
	}
	cite, ok := para.Inlines[2].(*Cite)
	if !ok {
		t.Fatalf("expected Cite, got %T", para.Inlines[2])
	}
	if cite.Citations[0].ID != "tbl:results" || cite.Citations[0].Mode != AuthorInText {
		t.Errorf("unexpected citation: %+v", cite.Citations[0])
	}

	tbl, ok := doc.Blocks[1].(*Table)
	if !ok {
		t.Fatalf("expected modern Table, got %T", doc.Blocks[1])
	}
	view, _ := TableOf(tbl)
	if got := Stringify(view.CaptionInlines()); got != "Results." {
		t.Errorf("expected caption %q, got %q", "Results.", got)
	}
	if len(tbl.Bodies) != 1 || len(tbl.Bodies[0].Body) != 1 {
		t.Fatalf("unexpected body shape: %+v", tbl.Bodies)
	}

	if b, ok := doc.Meta["tablenos-cleveref"].(MetaBool); !ok || !bool(b) {
		t.Errorf("expected MetaBool true, got %#v", doc.Meta["tablenos-cleveref"])
	}
}

func TestDecode_LegacyTable(t *testing.T) {
	doc, err := Decode([]byte(legacyDoc), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl, ok := doc.Blocks[0].(*LegacyTable)
	if !ok {
		t.Fatalf("expected LegacyTable, got %T", doc.Blocks[0])
	}
	if got := Stringify(tbl.Caption); got != "Results." {
		t.Errorf("expected caption %q, got %q", "Results.", got)
	}
	if len(tbl.Rows) != 1 || len(tbl.Rows[0]) != 1 {
		t.Fatalf("unexpected rows: %+v", tbl.Rows)
	}
}

const nullBlockDoc = `{
  "pandoc-api-version": [1, 17],
  "meta": {},
  "blocks": [
    {"t": "Null"},
    {"t": "Para", "c": [{"t": "Str", "c": "after"}]}
  ]
}`

// Old pandoc emits Null blocks; they must decode and survive re-encoding.
func TestDecode_NullBlock(t *testing.T) {
	doc, err := Decode([]byte(nullBlockDoc), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Blocks[0].(*Null); !ok {
		t.Fatalf("expected Null, got %T", doc.Blocks[0])
	}
	if _, ok := doc.Blocks[1].(*Para); !ok {
		t.Fatalf("expected Para, got %T", doc.Blocks[1])
	}
}

func TestDecode_MissingVersion(t *testing.T) {
	_, err := Decode([]byte(`{"meta": {}, "blocks": []}`), nil)
	if !errors.Is(err, ErrMissingVersion) {
		t.Errorf("expected ErrMissingVersion, got %v", err)
	}
}

func TestDecode_VersionFallback(t *testing.T) {
	doc, err := Decode([]byte(`{"meta": {}, "blocks": []}`), []int{1, 22})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.APIVersion) != 2 || doc.APIVersion[1] != 22 {
		t.Errorf("expected fallback version, got %v", doc.APIVersion)
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	_, err := Decode([]byte(`{"pandoc-api-version": [1,23], "meta": {}, "blocks": [{"t": "HologramBlock"}]}`), nil)
	if err == nil {
		t.Fatal("expected an error for an unknown element tag")
	}
}

func roundTrip(t *testing.T, input string) {
	t.Helper()
	doc, err := Decode([]byte(input), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var want, got any
	if err := json.Unmarshal([]byte(input), &want); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip changed the document (-in +out):\n%s", diff)
	}
}

func TestRoundTrip_Modern(t *testing.T) { roundTrip(t, modernDoc) }

func TestRoundTrip_Legacy(t *testing.T) { roundTrip(t, legacyDoc) }

func TestRoundTrip_NullBlock(t *testing.T) { roundTrip(t, nullBlockDoc) }
