package pandoc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingVersion is returned when a document carries no
// pandoc-api-version and no fallback version was supplied.
var ErrMissingVersion = errors.New("pandoc: cannot determine document schema version")

// legacyTables reports whether the given API version serializes tables in
// the old positional shape. The attributed Caption-wrapper shape arrived
// with pandoc-types 1.21 (pandoc 2.10).
func legacyTables(version []int) bool {
	if len(version) == 0 {
		return false
	}
	if version[0] != 1 {
		return false
	}
	return len(version) < 2 || version[1] < 21
}

// Decode parses a pandoc JSON document. The table schema is selected by the
// document's pandoc-api-version; fallback is used when the document does not
// carry one (nil fallback makes a missing version fatal).
func Decode(data []byte, fallback []int) (*Doc, error) {
	var env struct {
		APIVersion []int                      `json:"pandoc-api-version"`
		Meta       map[string]json.RawMessage `json:"meta"`
		Blocks     []json.RawMessage          `json:"blocks"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("pandoc: unparseable document: %w", err)
	}
	version := env.APIVersion
	if len(version) == 0 {
		version = fallback
	}
	if len(version) == 0 {
		return nil, ErrMissingVersion
	}

	d := decoder{legacy: legacyTables(version)}
	meta := make(map[string]MetaValue, len(env.Meta))
	for key, raw := range env.Meta {
		v, err := d.metaValue(raw)
		if err != nil {
			return nil, fmt.Errorf("pandoc: meta %q: %w", key, err)
		}
		meta[key] = v
	}
	blocks, err := d.blocks(env.Blocks)
	if err != nil {
		return nil, err
	}
	return &Doc{APIVersion: version, Meta: meta, Blocks: blocks}, nil
}

// Encode serializes the document back to pandoc JSON.
func (d *Doc) Encode() ([]byte, error) {
	meta := make(map[string]any, len(d.Meta))
	for key, v := range d.Meta {
		meta[key] = encodeMeta(v)
	}
	return json.Marshal(map[string]any{
		"pandoc-api-version": d.APIVersion,
		"meta":               meta,
		"blocks":             encodeBlocks(d.Blocks),
	})
}

// Decoding --------------------------------------------------------------

type decoder struct {
	legacy bool
}

type rawElt struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

func (d decoder) blocks(raws []json.RawMessage) ([]Block, error) {
	out := make([]Block, 0, len(raws))
	for _, raw := range raws {
		b, err := d.block(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (d decoder) blocksRaw(raw json.RawMessage) ([]Block, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	return d.blocks(raws)
}

func (d decoder) blockLists(raw json.RawMessage) ([][]Block, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	out := make([][]Block, 0, len(raws))
	for _, r := range raws {
		bs, err := d.blocksRaw(r)
		if err != nil {
			return nil, err
		}
		out = append(out, bs)
	}
	return out, nil
}

func (d decoder) inlines(raw json.RawMessage) ([]Inline, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	out := make([]Inline, 0, len(raws))
	for _, r := range raws {
		in, err := d.inline(r)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func (d decoder) inlineLists(raw json.RawMessage) ([][]Inline, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	out := make([][]Inline, 0, len(raws))
	for _, r := range raws {
		ins, err := d.inlines(r)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, nil
}

// parts splits a "c" payload that is a positional JSON array.
func parts(raw json.RawMessage, want int) ([]json.RawMessage, error) {
	var ps []json.RawMessage
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, err
	}
	if len(ps) != want {
		return nil, fmt.Errorf("expected %d elements, got %d", want, len(ps))
	}
	return ps, nil
}

func tagOf(raw json.RawMessage) (string, error) {
	var t rawElt
	if err := json.Unmarshal(raw, &t); err != nil {
		return "", err
	}
	return t.T, nil
}

func (d decoder) attr(raw json.RawMessage) (Attr, error) {
	ps, err := parts(raw, 3)
	if err != nil {
		return Attr{}, err
	}
	var a Attr
	if err := json.Unmarshal(ps[0], &a.ID); err != nil {
		return Attr{}, err
	}
	if err := json.Unmarshal(ps[1], &a.Classes); err != nil {
		return Attr{}, err
	}
	var pairs [][2]string
	if err := json.Unmarshal(ps[2], &pairs); err != nil {
		return Attr{}, err
	}
	for _, p := range pairs {
		a.KVs = append(a.KVs, KV{p[0], p[1]})
	}
	return a, nil
}

func (d decoder) target(raw json.RawMessage) (LinkTarget, error) {
	var pair [2]string
	if err := json.Unmarshal(raw, &pair); err != nil {
		return LinkTarget{}, err
	}
	return LinkTarget{URL: pair[0], Title: pair[1]}, nil
}

func (d decoder) inline(raw json.RawMessage) (Inline, error) {
	var e rawElt
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	wrap := func(err error) error {
		return fmt.Errorf("%s: %w", e.T, err)
	}
	switch e.T {
	case "Str":
		var s string
		if err := json.Unmarshal(e.C, &s); err != nil {
			return nil, wrap(err)
		}
		return &Str{Text: s}, nil
	case "Space":
		return &Space{}, nil
	case "SoftBreak":
		return &SoftBreak{}, nil
	case "LineBreak":
		return &LineBreak{}, nil
	case "Emph", "Underline", "Strong", "Strikeout", "Superscript", "Subscript", "SmallCaps":
		ins, err := d.inlines(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		switch e.T {
		case "Emph":
			return &Emph{ins}, nil
		case "Underline":
			return &Underline{ins}, nil
		case "Strong":
			return &Strong{ins}, nil
		case "Strikeout":
			return &Strikeout{ins}, nil
		case "Superscript":
			return &Superscript{ins}, nil
		case "Subscript":
			return &Subscript{ins}, nil
		default:
			return &SmallCaps{ins}, nil
		}
	case "Quoted":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		qt, err := tagOf(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		ins, err := d.inlines(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		return &Quoted{Type: qt, Inlines: ins}, nil
	case "Cite":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		var rawCites []json.RawMessage
		if err := json.Unmarshal(ps[0], &rawCites); err != nil {
			return nil, wrap(err)
		}
		cites := make([]*Citation, 0, len(rawCites))
		for _, rc := range rawCites {
			c, err := d.citation(rc)
			if err != nil {
				return nil, wrap(err)
			}
			cites = append(cites, c)
		}
		ins, err := d.inlines(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		return &Cite{Citations: cites, Inlines: ins}, nil
	case "Code":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		var s string
		if err := json.Unmarshal(ps[1], &s); err != nil {
			return nil, wrap(err)
		}
		return &Code{Attr: a, Text: s}, nil
	case "Math":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		mt, err := tagOf(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		var s string
		if err := json.Unmarshal(ps[1], &s); err != nil {
			return nil, wrap(err)
		}
		return &Math{Type: mt, Text: s}, nil
	case "RawInline":
		var pair [2]string
		if err := json.Unmarshal(e.C, &pair); err != nil {
			return nil, wrap(err)
		}
		return &RawInline{Format: pair[0], Text: pair[1]}, nil
	case "Link", "Image":
		ps, err := parts(e.C, 3)
		if err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		ins, err := d.inlines(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		tgt, err := d.target(ps[2])
		if err != nil {
			return nil, wrap(err)
		}
		if e.T == "Link" {
			return &Link{Attr: a, Inlines: ins, Target: tgt}, nil
		}
		return &Image{Attr: a, Inlines: ins, Target: tgt}, nil
	case "Note":
		bs, err := d.blocksRaw(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		return &Note{Blocks: bs}, nil
	case "Span":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		ins, err := d.inlines(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		return &Span{Attr: a, Inlines: ins}, nil
	}
	return nil, fmt.Errorf("pandoc: unknown inline element %q", e.T)
}

func (d decoder) citation(raw json.RawMessage) (*Citation, error) {
	var c struct {
		ID      string          `json:"citationId"`
		Prefix  json.RawMessage `json:"citationPrefix"`
		Suffix  json.RawMessage `json:"citationSuffix"`
		Mode    rawElt          `json:"citationMode"`
		NoteNum int             `json:"citationNoteNum"`
		Hash    int             `json:"citationHash"`
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	prefix, err := d.inlines(c.Prefix)
	if err != nil {
		return nil, err
	}
	suffix, err := d.inlines(c.Suffix)
	if err != nil {
		return nil, err
	}
	return &Citation{
		ID:      c.ID,
		Prefix:  prefix,
		Suffix:  suffix,
		Mode:    c.Mode.T,
		NoteNum: c.NoteNum,
		Hash:    c.Hash,
	}, nil
}

func (d decoder) block(raw json.RawMessage) (Block, error) {
	var e rawElt
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	wrap := func(err error) error {
		return fmt.Errorf("%s: %w", e.T, err)
	}
	switch e.T {
	case "Plain", "Para":
		ins, err := d.inlines(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		if e.T == "Plain" {
			return &Plain{ins}, nil
		}
		return &Para{ins}, nil
	case "LineBlock":
		lines, err := d.inlineLists(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		return &LineBlock{Lines: lines}, nil
	case "CodeBlock":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		var s string
		if err := json.Unmarshal(ps[1], &s); err != nil {
			return nil, wrap(err)
		}
		return &CodeBlock{Attr: a, Text: s}, nil
	case "RawBlock":
		var pair [2]string
		if err := json.Unmarshal(e.C, &pair); err != nil {
			return nil, wrap(err)
		}
		return &RawBlock{Format: pair[0], Text: pair[1]}, nil
	case "BlockQuote":
		bs, err := d.blocksRaw(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		return &BlockQuote{Blocks: bs}, nil
	case "OrderedList":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		la, err := d.listAttrs(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		items, err := d.blockLists(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		return &OrderedList{Attrs: la, Items: items}, nil
	case "BulletList":
		items, err := d.blockLists(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		return &BulletList{Items: items}, nil
	case "DefinitionList":
		var rawItems []json.RawMessage
		if err := json.Unmarshal(e.C, &rawItems); err != nil {
			return nil, wrap(err)
		}
		items := make([]Definition, 0, len(rawItems))
		for _, ri := range rawItems {
			ps, err := parts(ri, 2)
			if err != nil {
				return nil, wrap(err)
			}
			term, err := d.inlines(ps[0])
			if err != nil {
				return nil, wrap(err)
			}
			defs, err := d.blockLists(ps[1])
			if err != nil {
				return nil, wrap(err)
			}
			items = append(items, Definition{Term: term, Definitions: defs})
		}
		return &DefinitionList{Items: items}, nil
	case "Header":
		ps, err := parts(e.C, 3)
		if err != nil {
			return nil, wrap(err)
		}
		var level int
		if err := json.Unmarshal(ps[0], &level); err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		ins, err := d.inlines(ps[2])
		if err != nil {
			return nil, wrap(err)
		}
		return &Header{Level: level, Attr: a, Inlines: ins}, nil
	case "HorizontalRule":
		return &HorizontalRule{}, nil
	case "Null":
		return &Null{}, nil
	case "Div":
		ps, err := parts(e.C, 2)
		if err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		bs, err := d.blocksRaw(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		return &Div{Attr: a, Blocks: bs}, nil
	case "Figure":
		ps, err := parts(e.C, 3)
		if err != nil {
			return nil, wrap(err)
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, wrap(err)
		}
		cap, err := d.caption(ps[1])
		if err != nil {
			return nil, wrap(err)
		}
		bs, err := d.blocksRaw(ps[2])
		if err != nil {
			return nil, wrap(err)
		}
		return &Figure{Attr: a, Caption: cap, Blocks: bs}, nil
	case "Table":
		if d.legacy {
			t, err := d.legacyTable(e.C)
			if err != nil {
				return nil, wrap(err)
			}
			return t, nil
		}
		t, err := d.table(e.C)
		if err != nil {
			return nil, wrap(err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("pandoc: unknown block element %q", e.T)
}

func (d decoder) listAttrs(raw json.RawMessage) (ListAttrs, error) {
	ps, err := parts(raw, 3)
	if err != nil {
		return ListAttrs{}, err
	}
	var la ListAttrs
	if err := json.Unmarshal(ps[0], &la.Start); err != nil {
		return ListAttrs{}, err
	}
	if la.Style, err = tagOf(ps[1]); err != nil {
		return ListAttrs{}, err
	}
	if la.Delimiter, err = tagOf(ps[2]); err != nil {
		return ListAttrs{}, err
	}
	return la, nil
}

func (d decoder) caption(raw json.RawMessage) (Caption, error) {
	ps, err := parts(raw, 2)
	if err != nil {
		return Caption{}, err
	}
	long, err := d.blocksRaw(ps[1])
	if err != nil {
		return Caption{}, err
	}
	return Caption{Short: ps[0], Long: long}, nil
}

func (d decoder) table(raw json.RawMessage) (*Table, error) {
	ps, err := parts(raw, 6)
	if err != nil {
		return nil, err
	}
	a, err := d.attr(ps[0])
	if err != nil {
		return nil, err
	}
	cap, err := d.caption(ps[1])
	if err != nil {
		return nil, err
	}
	head, err := d.headFoot(ps[3])
	if err != nil {
		return nil, err
	}
	var rawBodies []json.RawMessage
	if err := json.Unmarshal(ps[4], &rawBodies); err != nil {
		return nil, err
	}
	bodies := make([]*TableBody, 0, len(rawBodies))
	for _, rb := range rawBodies {
		b, err := d.tableBody(rb)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	foot, err := d.headFoot(ps[5])
	if err != nil {
		return nil, err
	}
	return &Table{
		Attr:     a,
		Caption:  cap,
		ColSpecs: ps[2],
		Head:     head,
		Bodies:   bodies,
		Foot:     foot,
	}, nil
}

func (d decoder) headFoot(raw json.RawMessage) (TableHeadFoot, error) {
	ps, err := parts(raw, 2)
	if err != nil {
		return TableHeadFoot{}, err
	}
	a, err := d.attr(ps[0])
	if err != nil {
		return TableHeadFoot{}, err
	}
	rows, err := d.rows(ps[1])
	if err != nil {
		return TableHeadFoot{}, err
	}
	return TableHeadFoot{Attr: a, Rows: rows}, nil
}

func (d decoder) rows(raw json.RawMessage) ([]*TableRow, error) {
	var rawRows []json.RawMessage
	if err := json.Unmarshal(raw, &rawRows); err != nil {
		return nil, err
	}
	rows := make([]*TableRow, 0, len(rawRows))
	for _, rr := range rawRows {
		ps, err := parts(rr, 2)
		if err != nil {
			return nil, err
		}
		a, err := d.attr(ps[0])
		if err != nil {
			return nil, err
		}
		var rawCells []json.RawMessage
		if err := json.Unmarshal(ps[1], &rawCells); err != nil {
			return nil, err
		}
		cells := make([]*TableCell, 0, len(rawCells))
		for _, rc := range rawCells {
			c, err := d.cell(rc)
			if err != nil {
				return nil, err
			}
			cells = append(cells, c)
		}
		rows = append(rows, &TableRow{Attr: a, Cells: cells})
	}
	return rows, nil
}

func (d decoder) cell(raw json.RawMessage) (*TableCell, error) {
	ps, err := parts(raw, 5)
	if err != nil {
		return nil, err
	}
	a, err := d.attr(ps[0])
	if err != nil {
		return nil, err
	}
	var rowSpan, colSpan int
	if err := json.Unmarshal(ps[2], &rowSpan); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ps[3], &colSpan); err != nil {
		return nil, err
	}
	bs, err := d.blocksRaw(ps[4])
	if err != nil {
		return nil, err
	}
	return &TableCell{Attr: a, Align: ps[1], RowSpan: rowSpan, ColSpan: colSpan, Blocks: bs}, nil
}

func (d decoder) tableBody(raw json.RawMessage) (*TableBody, error) {
	ps, err := parts(raw, 4)
	if err != nil {
		return nil, err
	}
	a, err := d.attr(ps[0])
	if err != nil {
		return nil, err
	}
	var rhc int
	if err := json.Unmarshal(ps[1], &rhc); err != nil {
		return nil, err
	}
	head, err := d.rows(ps[2])
	if err != nil {
		return nil, err
	}
	body, err := d.rows(ps[3])
	if err != nil {
		return nil, err
	}
	return &TableBody{Attr: a, RowHeadColumns: rhc, Head: head, Body: body}, nil
}

func (d decoder) legacyTable(raw json.RawMessage) (*LegacyTable, error) {
	ps, err := parts(raw, 5)
	if err != nil {
		return nil, err
	}
	caption, err := d.inlines(ps[0])
	if err != nil {
		return nil, err
	}
	header, err := d.blockLists(ps[3])
	if err != nil {
		return nil, err
	}
	var rawRows []json.RawMessage
	if err := json.Unmarshal(ps[4], &rawRows); err != nil {
		return nil, err
	}
	rows := make([][][]Block, 0, len(rawRows))
	for _, rr := range rawRows {
		cells, err := d.blockLists(rr)
		if err != nil {
			return nil, err
		}
		rows = append(rows, cells)
	}
	return &LegacyTable{
		Caption: caption,
		Aligns:  ps[1],
		Widths:  ps[2],
		Header:  header,
		Rows:    rows,
	}, nil
}

func (d decoder) metaValue(raw json.RawMessage) (MetaValue, error) {
	var e rawElt
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	switch e.T {
	case "MetaMap":
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(e.C, &entries); err != nil {
			return nil, err
		}
		m := &MetaMap{Entries: make(map[string]MetaValue, len(entries))}
		for k, r := range entries {
			v, err := d.metaValue(r)
			if err != nil {
				return nil, err
			}
			m.Entries[k] = v
		}
		return m, nil
	case "MetaList":
		var raws []json.RawMessage
		if err := json.Unmarshal(e.C, &raws); err != nil {
			return nil, err
		}
		l := &MetaList{Entries: make([]MetaValue, 0, len(raws))}
		for _, r := range raws {
			v, err := d.metaValue(r)
			if err != nil {
				return nil, err
			}
			l.Entries = append(l.Entries, v)
		}
		return l, nil
	case "MetaBool":
		var b bool
		if err := json.Unmarshal(e.C, &b); err != nil {
			return nil, err
		}
		return MetaBool(b), nil
	case "MetaString":
		var s string
		if err := json.Unmarshal(e.C, &s); err != nil {
			return nil, err
		}
		return MetaString(s), nil
	case "MetaInlines":
		ins, err := d.inlines(e.C)
		if err != nil {
			return nil, err
		}
		return &MetaInlines{Inlines: ins}, nil
	case "MetaBlocks":
		bs, err := d.blocksRaw(e.C)
		if err != nil {
			return nil, err
		}
		return &MetaBlocks{Blocks: bs}, nil
	}
	return nil, fmt.Errorf("pandoc: unknown meta value %q", e.T)
}

// Encoding --------------------------------------------------------------

func elt(t string, c any) map[string]any {
	return map[string]any{"t": t, "c": c}
}

func elt0(t string) map[string]any {
	return map[string]any{"t": t}
}

func tagVal(t string) map[string]any {
	return map[string]any{"t": t}
}

func encodeAttr(a Attr) []any {
	classes := make([]any, 0, len(a.Classes))
	for _, c := range a.Classes {
		classes = append(classes, c)
	}
	kvs := make([]any, 0, len(a.KVs))
	for _, kv := range a.KVs {
		kvs = append(kvs, []any{kv.Key, kv.Value})
	}
	return []any{a.ID, classes, kvs}
}

func encodeInlines(ins []Inline) []any {
	out := make([]any, 0, len(ins))
	for _, in := range ins {
		out = append(out, encodeInline(in))
	}
	return out
}

func encodeInlineLists(lists [][]Inline) []any {
	out := make([]any, 0, len(lists))
	for _, l := range lists {
		out = append(out, encodeInlines(l))
	}
	return out
}

func encodeBlocks(bs []Block) []any {
	out := make([]any, 0, len(bs))
	for _, b := range bs {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlockLists(lists [][]Block) []any {
	out := make([]any, 0, len(lists))
	for _, l := range lists {
		out = append(out, encodeBlocks(l))
	}
	return out
}

func encodeCitation(c *Citation) map[string]any {
	return map[string]any{
		"citationId":      c.ID,
		"citationPrefix":  encodeInlines(c.Prefix),
		"citationSuffix":  encodeInlines(c.Suffix),
		"citationMode":    tagVal(c.Mode),
		"citationNoteNum": c.NoteNum,
		"citationHash":    c.Hash,
	}
}

func encodeInline(in Inline) map[string]any {
	switch el := in.(type) {
	case *Str:
		return elt("Str", el.Text)
	case *Emph:
		return elt("Emph", encodeInlines(el.Inlines))
	case *Underline:
		return elt("Underline", encodeInlines(el.Inlines))
	case *Strong:
		return elt("Strong", encodeInlines(el.Inlines))
	case *Strikeout:
		return elt("Strikeout", encodeInlines(el.Inlines))
	case *Superscript:
		return elt("Superscript", encodeInlines(el.Inlines))
	case *Subscript:
		return elt("Subscript", encodeInlines(el.Inlines))
	case *SmallCaps:
		return elt("SmallCaps", encodeInlines(el.Inlines))
	case *Quoted:
		return elt("Quoted", []any{tagVal(el.Type), encodeInlines(el.Inlines)})
	case *Cite:
		cites := make([]any, 0, len(el.Citations))
		for _, c := range el.Citations {
			cites = append(cites, encodeCitation(c))
		}
		return elt("Cite", []any{cites, encodeInlines(el.Inlines)})
	case *Code:
		return elt("Code", []any{encodeAttr(el.Attr), el.Text})
	case *Space:
		return elt0("Space")
	case *SoftBreak:
		return elt0("SoftBreak")
	case *LineBreak:
		return elt0("LineBreak")
	case *Math:
		return elt("Math", []any{tagVal(el.Type), el.Text})
	case *RawInline:
		return elt("RawInline", []any{el.Format, el.Text})
	case *Link:
		return elt("Link", []any{encodeAttr(el.Attr), encodeInlines(el.Inlines), []any{el.Target.URL, el.Target.Title}})
	case *Image:
		return elt("Image", []any{encodeAttr(el.Attr), encodeInlines(el.Inlines), []any{el.Target.URL, el.Target.Title}})
	case *Note:
		return elt("Note", encodeBlocks(el.Blocks))
	case *Span:
		return elt("Span", []any{encodeAttr(el.Attr), encodeInlines(el.Inlines)})
	}
	panic(fmt.Sprintf("pandoc: cannot encode inline %T", in))
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return json.RawMessage("null")
	}
	return raw
}

func encodeCaption(c Caption) []any {
	return []any{rawOrNull(c.Short), encodeBlocks(c.Long)}
}

func encodeRows(rows []*TableRow) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		cells := make([]any, 0, len(r.Cells))
		for _, c := range r.Cells {
			cells = append(cells, []any{
				encodeAttr(c.Attr), rawOrNull(c.Align), c.RowSpan, c.ColSpan, encodeBlocks(c.Blocks),
			})
		}
		out = append(out, []any{encodeAttr(r.Attr), cells})
	}
	return out
}

func encodeHeadFoot(hf TableHeadFoot) []any {
	return []any{encodeAttr(hf.Attr), encodeRows(hf.Rows)}
}

func encodeBlock(b Block) map[string]any {
	switch el := b.(type) {
	case *Plain:
		return elt("Plain", encodeInlines(el.Inlines))
	case *Para:
		return elt("Para", encodeInlines(el.Inlines))
	case *LineBlock:
		return elt("LineBlock", encodeInlineLists(el.Lines))
	case *CodeBlock:
		return elt("CodeBlock", []any{encodeAttr(el.Attr), el.Text})
	case *RawBlock:
		return elt("RawBlock", []any{el.Format, el.Text})
	case *BlockQuote:
		return elt("BlockQuote", encodeBlocks(el.Blocks))
	case *OrderedList:
		la := []any{el.Attrs.Start, tagVal(el.Attrs.Style), tagVal(el.Attrs.Delimiter)}
		return elt("OrderedList", []any{la, encodeBlockLists(el.Items)})
	case *BulletList:
		return elt("BulletList", encodeBlockLists(el.Items))
	case *DefinitionList:
		items := make([]any, 0, len(el.Items))
		for _, it := range el.Items {
			items = append(items, []any{encodeInlines(it.Term), encodeBlockLists(it.Definitions)})
		}
		return elt("DefinitionList", items)
	case *Header:
		return elt("Header", []any{el.Level, encodeAttr(el.Attr), encodeInlines(el.Inlines)})
	case *HorizontalRule:
		return elt0("HorizontalRule")
	case *Null:
		return elt0("Null")
	case *Div:
		return elt("Div", []any{encodeAttr(el.Attr), encodeBlocks(el.Blocks)})
	case *Figure:
		return elt("Figure", []any{encodeAttr(el.Attr), encodeCaption(el.Caption), encodeBlocks(el.Blocks)})
	case *Table:
		bodies := make([]any, 0, len(el.Bodies))
		for _, tb := range el.Bodies {
			bodies = append(bodies, []any{
				encodeAttr(tb.Attr), tb.RowHeadColumns, encodeRows(tb.Head), encodeRows(tb.Body),
			})
		}
		return elt("Table", []any{
			encodeAttr(el.Attr),
			encodeCaption(el.Caption),
			rawOrNull(el.ColSpecs),
			encodeHeadFoot(el.Head),
			bodies,
			encodeHeadFoot(el.Foot),
		})
	case *LegacyTable:
		rows := make([]any, 0, len(el.Rows))
		for _, r := range el.Rows {
			rows = append(rows, encodeBlockLists(r))
		}
		return elt("Table", []any{
			encodeInlines(el.Caption),
			rawOrNull(el.Aligns),
			rawOrNull(el.Widths),
			encodeBlockLists(el.Header),
			rows,
		})
	}
	panic(fmt.Sprintf("pandoc: cannot encode block %T", b))
}

func encodeMeta(v MetaValue) map[string]any {
	switch m := v.(type) {
	case *MetaMap:
		entries := make(map[string]any, len(m.Entries))
		for k, e := range m.Entries {
			entries[k] = encodeMeta(e)
		}
		return elt("MetaMap", entries)
	case *MetaList:
		entries := make([]any, 0, len(m.Entries))
		for _, e := range m.Entries {
			entries = append(entries, encodeMeta(e))
		}
		return elt("MetaList", entries)
	case MetaBool:
		return elt("MetaBool", bool(m))
	case MetaString:
		return elt("MetaString", string(m))
	case *MetaInlines:
		return elt("MetaInlines", encodeInlines(m.Inlines))
	case *MetaBlocks:
		return elt("MetaBlocks", encodeBlocks(m.Blocks))
	}
	panic(fmt.Sprintf("pandoc: cannot encode meta value %T", v))
}
