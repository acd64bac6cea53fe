// Package pandoc models the pandoc document AST and its JSON wire format.
//
// The node set is a closed union: every element pandoc can emit is a concrete
// type implementing Inline or Block, and the walker in walk.go matches them
// exhaustively. Table exists in two shapes depending on the document-model
// version (see schema.go); everything outside this package is schema-agnostic.
package pandoc

import (
	"encoding/json"
	"strings"
)

// Element is any node of the document tree.
type Element interface {
	Tag() string
}

// Inline is an inline-level element (word, space, citation, ...).
type Inline interface {
	Element
	inline()
}

// Block is a block-level element (paragraph, table, header, ...).
type Block interface {
	Element
	block()
}

// Doc is a complete pandoc document: the API version it was serialized
// with, the metadata map, and the block list.
type Doc struct {
	APIVersion []int
	Meta       map[string]MetaValue
	Blocks     []Block
}

// KV is one key-value pair of an element attribute.
type KV struct {
	Key   string
	Value string
}

// Attr is a pandoc element attribute: identifier, classes, key-value pairs.
type Attr struct {
	ID      string
	Classes []string
	KVs     []KV
}

// Get returns the value for key, if present.
func (a *Attr) Get(key string) (string, bool) {
	for _, kv := range a.KVs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set inserts or overwrites a key-value pair.
func (a *Attr) Set(key, value string) {
	for i, kv := range a.KVs {
		if kv.Key == key {
			a.KVs[i].Value = value
			return
		}
	}
	a.KVs = append(a.KVs, KV{key, value})
}

// HasClass reports whether the attribute carries the given class.
func (a *Attr) HasClass(c string) bool {
	for _, cl := range a.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// Citation modes.
const (
	NormalCitation = "NormalCitation"
	SuppressAuthor = "SuppressAuthor"
	AuthorInText   = "AuthorInText"
)

// Citation is one entry of a Cite element.
type Citation struct {
	ID      string
	Prefix  []Inline
	Suffix  []Inline
	Mode    string
	NoteNum int
	Hash    int
}

// Math types.
const (
	DisplayMath = "DisplayMath"
	InlineMath  = "InlineMath"
)

// Quote types.
const (
	SingleQuote = "SingleQuote"
	DoubleQuote = "DoubleQuote"
)

// LinkTarget is a hyperlink destination.
type LinkTarget struct {
	URL   string
	Title string
}

// ListAttrs describes an ordered list's numbering.
type ListAttrs struct {
	Start     int
	Style     string
	Delimiter string
}

// Definition is one item of a definition list.
type Definition struct {
	Term        []Inline
	Definitions [][]Block
}

// Inline elements -----------------------------------------------------------

type Str struct{ Text string }

type Emph struct{ Inlines []Inline }

type Underline struct{ Inlines []Inline }

type Strong struct{ Inlines []Inline }

type Strikeout struct{ Inlines []Inline }

type Superscript struct{ Inlines []Inline }

type Subscript struct{ Inlines []Inline }

type SmallCaps struct{ Inlines []Inline }

type Quoted struct {
	Type    string // SingleQuote or DoubleQuote
	Inlines []Inline
}

type Cite struct {
	Citations []*Citation
	Inlines   []Inline
}

type Code struct {
	Attr Attr
	Text string
}

type Space struct{}

type SoftBreak struct{}

type LineBreak struct{}

type Math struct {
	Type string // DisplayMath or InlineMath
	Text string
}

type RawInline struct {
	Format string
	Text   string
}

type Link struct {
	Attr    Attr
	Inlines []Inline
	Target  LinkTarget
}

type Image struct {
	Attr    Attr
	Inlines []Inline
	Target  LinkTarget
}

type Note struct{ Blocks []Block }

type Span struct {
	Attr    Attr
	Inlines []Inline
}

func (*Str) Tag() string         { return "Str" }
func (*Emph) Tag() string        { return "Emph" }
func (*Underline) Tag() string   { return "Underline" }
func (*Strong) Tag() string      { return "Strong" }
func (*Strikeout) Tag() string   { return "Strikeout" }
func (*Superscript) Tag() string { return "Superscript" }
func (*Subscript) Tag() string   { return "Subscript" }
func (*SmallCaps) Tag() string   { return "SmallCaps" }
func (*Quoted) Tag() string      { return "Quoted" }
func (*Cite) Tag() string        { return "Cite" }
func (*Code) Tag() string        { return "Code" }
func (*Space) Tag() string       { return "Space" }
func (*SoftBreak) Tag() string   { return "SoftBreak" }
func (*LineBreak) Tag() string   { return "LineBreak" }
func (*Math) Tag() string        { return "Math" }
func (*RawInline) Tag() string   { return "RawInline" }
func (*Link) Tag() string        { return "Link" }
func (*Image) Tag() string       { return "Image" }
func (*Note) Tag() string        { return "Note" }
func (*Span) Tag() string        { return "Span" }

func (*Str) inline()         {}
func (*Emph) inline()        {}
func (*Underline) inline()   {}
func (*Strong) inline()      {}
func (*Strikeout) inline()   {}
func (*Superscript) inline() {}
func (*Subscript) inline()   {}
func (*SmallCaps) inline()   {}
func (*Quoted) inline()      {}
func (*Cite) inline()        {}
func (*Code) inline()        {}
func (*Space) inline()       {}
func (*SoftBreak) inline()   {}
func (*LineBreak) inline()   {}
func (*Math) inline()        {}
func (*RawInline) inline()   {}
func (*Link) inline()        {}
func (*Image) inline()       {}
func (*Note) inline()        {}
func (*Span) inline()        {}

// Block elements ------------------------------------------------------------

type Plain struct{ Inlines []Inline }

type Para struct{ Inlines []Inline }

type LineBlock struct{ Lines [][]Inline }

type CodeBlock struct {
	Attr Attr
	Text string
}

type RawBlock struct {
	Format string
	Text   string
}

type BlockQuote struct{ Blocks []Block }

type OrderedList struct {
	Attrs ListAttrs
	Items [][]Block
}

type BulletList struct{ Items [][]Block }

type DefinitionList struct{ Items []Definition }

type Header struct {
	Level   int
	Attr    Attr
	Inlines []Inline
}

type HorizontalRule struct{}

// Null is the empty block of pandoc-types < 1.23. It carries nothing but
// must round-trip so legacy documents survive the filter.
type Null struct{}

type Div struct {
	Attr   Attr
	Blocks []Block
}

// Caption is the caption of a modern (api >= 1.21) table or figure: an
// optional short form kept verbatim, and the long form as blocks.
type Caption struct {
	Short json.RawMessage // null when absent; never interpreted
	Long  []Block
}

// TableRow is one row of a modern table.
type TableRow struct {
	Attr  Attr
	Cells []*TableCell
}

// TableCell is one cell of a modern table.
type TableCell struct {
	Attr    Attr
	Align   json.RawMessage // alignment tag, kept verbatim
	RowSpan int
	ColSpan int
	Blocks  []Block
}

// TableHeadFoot is the head or foot section of a modern table.
type TableHeadFoot struct {
	Attr Attr
	Rows []*TableRow
}

// TableBody is one body section of a modern table.
type TableBody struct {
	Attr           Attr
	RowHeadColumns int
	Head           []*TableRow
	Body           []*TableRow
}

// Table is the modern table shape (pandoc-api-version >= 1.21): attributes,
// a wrapped caption, column specs, head, bodies, and foot.
type Table struct {
	Attr     Attr
	Caption  Caption
	ColSpecs json.RawMessage // alignments and widths, kept verbatim
	Head     TableHeadFoot
	Bodies   []*TableBody
	Foot     TableHeadFoot
}

// LegacyTable is the positional table shape (pandoc-api-version < 1.21):
// caption inlines first, then alignments, widths, header cells, and rows.
// It has no attribute slot.
type LegacyTable struct {
	Caption []Inline
	Aligns  json.RawMessage
	Widths  json.RawMessage
	Header  [][]Block   // one cell = list of blocks
	Rows    [][][]Block // rows of cells
}

type Figure struct {
	Attr    Attr
	Caption Caption
	Blocks  []Block
}

func (*Plain) Tag() string          { return "Plain" }
func (*Para) Tag() string           { return "Para" }
func (*LineBlock) Tag() string      { return "LineBlock" }
func (*CodeBlock) Tag() string      { return "CodeBlock" }
func (*RawBlock) Tag() string       { return "RawBlock" }
func (*BlockQuote) Tag() string     { return "BlockQuote" }
func (*OrderedList) Tag() string    { return "OrderedList" }
func (*BulletList) Tag() string     { return "BulletList" }
func (*DefinitionList) Tag() string { return "DefinitionList" }
func (*Header) Tag() string         { return "Header" }
func (*HorizontalRule) Tag() string { return "HorizontalRule" }
func (*Null) Tag() string           { return "Null" }
func (*Div) Tag() string            { return "Div" }
func (*Table) Tag() string          { return "Table" }
func (*LegacyTable) Tag() string    { return "Table" }
func (*Figure) Tag() string         { return "Figure" }

func (*Plain) block()          {}
func (*Para) block()           {}
func (*LineBlock) block()      {}
func (*CodeBlock) block()      {}
func (*RawBlock) block()       {}
func (*BlockQuote) block()     {}
func (*OrderedList) block()    {}
func (*BulletList) block()     {}
func (*DefinitionList) block() {}
func (*Header) block()         {}
func (*HorizontalRule) block() {}
func (*Null) block()           {}
func (*Div) block()            {}
func (*Table) block()          {}
func (*LegacyTable) block()    {}
func (*Figure) block()         {}

// Stringify flattens an inline run to plain text, the way pandoc's own
// stringify does: Str text verbatim, any whitespace element as a single
// space, everything else by its inline children.
func Stringify(inlines []Inline) string {
	var sb strings.Builder
	stringifyInto(&sb, inlines)
	return sb.String()
}

func stringifyInto(sb *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch el := in.(type) {
		case *Str:
			sb.WriteString(el.Text)
		case *Space, *SoftBreak, *LineBreak:
			sb.WriteByte(' ')
		case *Code:
			sb.WriteString(el.Text)
		case *Math:
			sb.WriteString(el.Text)
		case *Emph:
			stringifyInto(sb, el.Inlines)
		case *Underline:
			stringifyInto(sb, el.Inlines)
		case *Strong:
			stringifyInto(sb, el.Inlines)
		case *Strikeout:
			stringifyInto(sb, el.Inlines)
		case *Superscript:
			stringifyInto(sb, el.Inlines)
		case *Subscript:
			stringifyInto(sb, el.Inlines)
		case *SmallCaps:
			stringifyInto(sb, el.Inlines)
		case *Quoted:
			stringifyInto(sb, el.Inlines)
		case *Cite:
			stringifyInto(sb, el.Inlines)
		case *Link:
			stringifyInto(sb, el.Inlines)
		case *Image:
			stringifyInto(sb, el.Inlines)
		case *Span:
			stringifyInto(sb, el.Inlines)
		}
	}
}
