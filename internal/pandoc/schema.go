package pandoc

// TableShape is a schema-normalized view of a table node. The two table
// schemas (legacy positional and attributed Caption wrapper) are reconciled
// here; callers read and write the caption and identifier through the view
// and never touch the underlying shape. Everything the view does not expose
// (column specs, rows, widths) rides along untouched in the wrapped node.
type TableShape struct {
	node Block
}

// TableOf returns the canonical view of b when b is a table node of either
// schema.
func TableOf(b Block) (*TableShape, bool) {
	switch b.(type) {
	case *Table, *LegacyTable:
		return &TableShape{node: b}, true
	}
	return nil, false
}

// Node returns the underlying table block for re-emission.
func (v *TableShape) Node() Block { return v.node }

// CaptionInlines returns the flat caption inline run. For the wrapped
// schema the caption's long form holds a single Plain (or Para) block; its
// inlines are the run.
func (v *TableShape) CaptionInlines() []Inline {
	switch t := v.node.(type) {
	case *LegacyTable:
		return t.Caption
	case *Table:
		for _, b := range t.Caption.Long {
			switch blk := b.(type) {
			case *Plain:
				return blk.Inlines
			case *Para:
				return blk.Inlines
			}
		}
	}
	return nil
}

// SetCaptionInlines overwrites the caption with the given inline run,
// re-wrapping as the active schema requires.
func (v *TableShape) SetCaptionInlines(inlines []Inline) {
	switch t := v.node.(type) {
	case *LegacyTable:
		t.Caption = inlines
	case *Table:
		for i, b := range t.Caption.Long {
			switch blk := b.(type) {
			case *Plain:
				blk.Inlines = inlines
				return
			case *Para:
				t.Caption.Long[i] = &Plain{Inlines: inlines}
				return
			}
		}
		t.Caption.Long = append(t.Caption.Long, &Plain{Inlines: inlines})
	}
}

// ID returns the table's own identifier, for schemas that attach one.
func (v *TableShape) ID() string {
	if t, ok := v.node.(*Table); ok {
		return t.Attr.ID
	}
	return ""
}

// SetID records the identifier on the table where the schema has a slot for
// it; the legacy shape has none, so the identifier lives only in the
// reference table there.
func (v *TableShape) SetID(id string) {
	if t, ok := v.node.(*Table); ok {
		t.Attr.ID = id
	}
}
