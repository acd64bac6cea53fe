package pandoc

import "fmt"

// Outcome is what a visitor decides for the node it was shown.
type Outcome struct {
	replace bool
	nodes   []Element
}

// Unchanged keeps the node as-is (the visitor may still have mutated it in
// place).
func Unchanged() Outcome { return Outcome{} }

// Replace substitutes the node with a single replacement.
func Replace(e Element) Outcome { return Outcome{replace: true, nodes: []Element{e}} }

// Splice substitutes the node with a list of replacements; an empty list
// deletes the node.
func Splice(es ...Element) Outcome { return Outcome{replace: true, nodes: es} }

// Visitor inspects one element and decides its fate.
type Visitor func(Element) Outcome

// WalkBlocks traverses a block list depth-first in document order. Visitors
// are applied in declared order to each node before its children are
// descended into. When a visitor replaces a node, the remaining visitors are
// skipped for that node and the replacements are not revisited; only their
// children are walked. Replacements spliced into a block list must be
// blocks, and likewise for inlines.
func WalkBlocks(blocks []Block, visitors ...Visitor) []Block {
	return walkList(blocks, asBlock, visitors)
}

// WalkInlines is WalkBlocks for an inline list.
func WalkInlines(inlines []Inline, visitors ...Visitor) []Inline {
	return walkList(inlines, asInline, visitors)
}

func asBlock(e Element) (Block, bool) {
	b, ok := e.(Block)
	return b, ok
}

func asInline(e Element) (Inline, bool) {
	in, ok := e.(Inline)
	return in, ok
}

func walkList[T Element](list []T, conv func(Element) (T, bool), visitors []Visitor) []T {
	out := make([]T, 0, len(list))
	for _, el := range list {
		replaced := false
		var replacements []Element
		for _, v := range visitors {
			if o := v(el); o.replace {
				replaced = true
				replacements = o.nodes
				break
			}
		}
		if !replaced {
			descend(el, visitors)
			out = append(out, el)
			continue
		}
		for _, r := range replacements {
			t, ok := conv(r)
			if !ok {
				panic(fmt.Sprintf("pandoc: visitor spliced %T into a %T list", r, *new(T)))
			}
			descend(t, visitors)
			out = append(out, t)
		}
	}
	return out
}

// descend walks the children of a single element in place.
func descend(e Element, visitors []Visitor) {
	switch el := e.(type) {
	case *Emph:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Underline:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Strong:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Strikeout:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Superscript:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Subscript:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *SmallCaps:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Quoted:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Cite:
		for _, c := range el.Citations {
			c.Prefix = walkList(c.Prefix, asInline, visitors)
			c.Suffix = walkList(c.Suffix, asInline, visitors)
		}
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Link:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Image:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Note:
		el.Blocks = walkList(el.Blocks, asBlock, visitors)
	case *Span:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Plain:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Para:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *LineBlock:
		for i := range el.Lines {
			el.Lines[i] = walkList(el.Lines[i], asInline, visitors)
		}
	case *BlockQuote:
		el.Blocks = walkList(el.Blocks, asBlock, visitors)
	case *OrderedList:
		for i := range el.Items {
			el.Items[i] = walkList(el.Items[i], asBlock, visitors)
		}
	case *BulletList:
		for i := range el.Items {
			el.Items[i] = walkList(el.Items[i], asBlock, visitors)
		}
	case *DefinitionList:
		for i := range el.Items {
			el.Items[i].Term = walkList(el.Items[i].Term, asInline, visitors)
			for j := range el.Items[i].Definitions {
				el.Items[i].Definitions[j] = walkList(el.Items[i].Definitions[j], asBlock, visitors)
			}
		}
	case *Header:
		el.Inlines = walkList(el.Inlines, asInline, visitors)
	case *Div:
		el.Blocks = walkList(el.Blocks, asBlock, visitors)
	case *Figure:
		el.Caption.Long = walkList(el.Caption.Long, asBlock, visitors)
		el.Blocks = walkList(el.Blocks, asBlock, visitors)
	case *Table:
		el.Caption.Long = walkList(el.Caption.Long, asBlock, visitors)
		walkRows(el.Head.Rows, visitors)
		for _, tb := range el.Bodies {
			walkRows(tb.Head, visitors)
			walkRows(tb.Body, visitors)
		}
		walkRows(el.Foot.Rows, visitors)
	case *LegacyTable:
		el.Caption = walkList(el.Caption, asInline, visitors)
		for i := range el.Header {
			el.Header[i] = walkList(el.Header[i], asBlock, visitors)
		}
		for _, row := range el.Rows {
			for i := range row {
				row[i] = walkList(row[i], asBlock, visitors)
			}
		}
	case *Str, *Space, *SoftBreak, *LineBreak, *Math, *RawInline, *Code,
		*CodeBlock, *RawBlock, *HorizontalRule, *Null:
		// Leaves.
	}
}

func walkRows(rows []*TableRow, visitors []Visitor) {
	for _, r := range rows {
		for _, c := range r.Cells {
			c.Blocks = walkList(c.Blocks, asBlock, visitors)
		}
	}
}

// MapBlockLists applies f to every directly-owned block list of e and
// writes the result back. It returns false when e owns no block list.
func MapBlockLists(e Element, f func([]Block) []Block) bool {
	switch el := e.(type) {
	case *BlockQuote:
		el.Blocks = f(el.Blocks)
	case *Div:
		el.Blocks = f(el.Blocks)
	case *Note:
		el.Blocks = f(el.Blocks)
	case *Figure:
		el.Caption.Long = f(el.Caption.Long)
		el.Blocks = f(el.Blocks)
	case *OrderedList:
		for i := range el.Items {
			el.Items[i] = f(el.Items[i])
		}
	case *BulletList:
		for i := range el.Items {
			el.Items[i] = f(el.Items[i])
		}
	case *DefinitionList:
		for i := range el.Items {
			for j := range el.Items[i].Definitions {
				el.Items[i].Definitions[j] = f(el.Items[i].Definitions[j])
			}
		}
	case *Table:
		el.Caption.Long = f(el.Caption.Long)
		mapRows(el.Head.Rows, f)
		for _, tb := range el.Bodies {
			mapRows(tb.Head, f)
			mapRows(tb.Body, f)
		}
		mapRows(el.Foot.Rows, f)
	case *LegacyTable:
		for i := range el.Header {
			el.Header[i] = f(el.Header[i])
		}
		for _, row := range el.Rows {
			for i := range row {
				row[i] = f(row[i])
			}
		}
	default:
		return false
	}
	return true
}

func mapRows(rows []*TableRow, f func([]Block) []Block) {
	for _, r := range rows {
		for _, c := range r.Cells {
			c.Blocks = f(c.Blocks)
		}
	}
}

// MapInlineLists applies f to every directly-owned inline list of e and
// writes the result back. It returns false when e owns no inline list.
// Visitors that need sequence context (adjacent-sibling patterns) use this
// instead of per-node replacement.
func MapInlineLists(e Element, f func([]Inline) []Inline) bool {
	switch el := e.(type) {
	case *Emph:
		el.Inlines = f(el.Inlines)
	case *Underline:
		el.Inlines = f(el.Inlines)
	case *Strong:
		el.Inlines = f(el.Inlines)
	case *Strikeout:
		el.Inlines = f(el.Inlines)
	case *Superscript:
		el.Inlines = f(el.Inlines)
	case *Subscript:
		el.Inlines = f(el.Inlines)
	case *SmallCaps:
		el.Inlines = f(el.Inlines)
	case *Quoted:
		el.Inlines = f(el.Inlines)
	case *Span:
		el.Inlines = f(el.Inlines)
	case *Plain:
		el.Inlines = f(el.Inlines)
	case *Para:
		el.Inlines = f(el.Inlines)
	case *Header:
		el.Inlines = f(el.Inlines)
	case *LineBlock:
		for i := range el.Lines {
			el.Lines[i] = f(el.Lines[i])
		}
	case *DefinitionList:
		for i := range el.Items {
			el.Items[i].Term = f(el.Items[i].Term)
		}
	case *Cite:
		for _, c := range el.Citations {
			c.Prefix = f(c.Prefix)
			c.Suffix = f(c.Suffix)
		}
	case *Link:
		el.Inlines = f(el.Inlines)
	case *Image:
		el.Inlines = f(el.Inlines)
	default:
		return false
	}
	return true
}
