package pandoc

// MetaValue is a value of the document metadata map.
type MetaValue interface {
	Element
	meta()
}

type MetaMap struct{ Entries map[string]MetaValue }

type MetaList struct{ Entries []MetaValue }

type MetaBool bool

type MetaString string

type MetaInlines struct{ Inlines []Inline }

type MetaBlocks struct{ Blocks []Block }

func (*MetaMap) Tag() string     { return "MetaMap" }
func (*MetaList) Tag() string    { return "MetaList" }
func (MetaBool) Tag() string     { return "MetaBool" }
func (MetaString) Tag() string   { return "MetaString" }
func (*MetaInlines) Tag() string { return "MetaInlines" }
func (*MetaBlocks) Tag() string  { return "MetaBlocks" }

func (*MetaMap) meta()     {}
func (*MetaList) meta()    {}
func (MetaBool) meta()     {}
func (MetaString) meta()   {}
func (*MetaInlines) meta() {}
func (*MetaBlocks) meta()  {}

// MetaText extracts a plain-text value from a metadata entry. MetaString
// and MetaInlines both qualify; pandoc stores YAML scalars as MetaInlines.
func MetaText(v MetaValue) (string, bool) {
	switch m := v.(type) {
	case MetaString:
		return string(m), true
	case *MetaInlines:
		return Stringify(m.Inlines), true
	case *MetaBlocks:
		var parts []string
		for _, b := range m.Blocks {
			switch blk := b.(type) {
			case *Plain:
				parts = append(parts, Stringify(blk.Inlines))
			case *Para:
				parts = append(parts, Stringify(blk.Inlines))
			case *RawBlock:
				parts = append(parts, blk.Text)
			}
		}
		if len(parts) == 1 {
			return parts[0], true
		}
		if len(parts) > 1 {
			s := parts[0]
			for _, p := range parts[1:] {
				s += "\n" + p
			}
			return s, true
		}
		return "", false
	}
	return "", false
}

// MetaFlag extracts a boolean from a metadata entry, accepting MetaBool as
// well as the textual forms authors write in YAML ("true"/"True"/"on", ...).
func MetaFlag(v MetaValue) (bool, bool) {
	if b, ok := v.(MetaBool); ok {
		return bool(b), true
	}
	if s, ok := MetaText(v); ok {
		switch s {
		case "true", "True", "TRUE", "on", "On", "yes", "Yes":
			return true, true
		case "false", "False", "FALSE", "off", "Off", "no", "No":
			return false, true
		}
	}
	return false, false
}

// MetaStrings extracts a list of strings: a MetaList of textual entries, or
// a single textual entry as a one-element list.
func MetaStrings(v MetaValue) ([]string, bool) {
	if l, ok := v.(*MetaList); ok {
		out := make([]string, 0, len(l.Entries))
		for _, e := range l.Entries {
			s, ok := MetaText(e)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	if s, ok := MetaText(v); ok {
		return []string{s}, true
	}
	return nil, false
}
