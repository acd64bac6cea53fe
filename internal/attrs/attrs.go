// Package attrs recovers a trailing {...} attribute clause from a caption
// inline run. Authors write table attributes as literal caption text
// ("Caption text. {#tbl:results .striped key=value}") because the markup
// language has no native table-attribute syntax; this package finds the
// clause, reassembles it across Str/Space nodes, and parses it.
package attrs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomduck/pandoc-tablenos/internal/pandoc"
)

// ErrMalformed reports an attribute clause that opens but cannot be parsed
// (no closing brace, or content outside the grammar). Callers recover by
// treating the table as unnumbered.
var ErrMalformed = errors.New("attrs: malformed attribute clause")

// Attributes is a parsed attribute clause.
type Attributes struct {
	ID      string
	Classes []string
	KVs     []pandoc.KV
}

// Get returns the value for key, if present.
func (a *Attributes) Get(key string) (string, bool) {
	for _, kv := range a.KVs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set inserts or overwrites a key-value pair.
func (a *Attributes) Set(key, value string) {
	for i, kv := range a.KVs {
		if kv.Key == key {
			a.KVs[i].Value = value
			return
		}
	}
	a.KVs = append(a.KVs, pandoc.KV{Key: key, Value: value})
}

// Find locates the start of an attribute clause: the first Str whose text
// opens with '{'. Returns -1 when the run has none.
func Find(inlines []pandoc.Inline) int {
	for i, in := range inlines {
		if s, ok := in.(*pandoc.Str); ok && strings.HasPrefix(s.Text, "{") {
			return i
		}
	}
	return -1
}

// Extract parses the attribute clause starting at index start of the inline
// run. The clause may span several Str/Space nodes; their stringified
// content is joined before parsing. On success it returns the parsed
// attributes and the exclusive end index of the consumed nodes; the caller
// removes the consumed range from the caption. Extract is pure: the input
// run is never modified.
func Extract(inlines []pandoc.Inline, start int) (Attributes, int, error) {
	if start < 0 || start >= len(inlines) {
		return Attributes{}, 0, ErrMalformed
	}
	s, ok := inlines[start].(*pandoc.Str)
	if !ok || !strings.HasPrefix(s.Text, "{") {
		return Attributes{}, 0, ErrMalformed
	}

	var sb strings.Builder
	end := -1
scan:
	for i := start; i < len(inlines); i++ {
		switch in := inlines[i].(type) {
		case *pandoc.Str:
			sb.WriteString(in.Text)
			if closesClause(in.Text) {
				end = i + 1
				break scan
			}
		case *pandoc.Space, *pandoc.SoftBreak:
			sb.WriteByte(' ')
		case *pandoc.Quoted:
			// Pandoc smart quotes can swallow a quoted value.
			q := `"`
			if in.Type == pandoc.SingleQuote {
				q = "'"
			}
			sb.WriteString(q)
			sb.WriteString(pandoc.Stringify(in.Inlines))
			sb.WriteString(q)
		default:
			return Attributes{}, 0, fmt.Errorf("%w: %s inside clause", ErrMalformed, in.Tag())
		}
	}
	if end < 0 {
		return Attributes{}, 0, fmt.Errorf("%w: no closing brace", ErrMalformed)
	}

	parsed, err := parse(sb.String())
	if err != nil {
		return Attributes{}, 0, err
	}
	return parsed, end, nil
}

// closesClause reports whether a Str text ends the clause. A '}' inside a
// quoted value would terminate the scan early; literal braces in quoted
// values are a documented unsupported case upstream and stay unsupported
// here.
func closesClause(text string) bool {
	return strings.Contains(text, "}")
}

// parse parses the joined clause text: { '#'id? ('.'class)* (key'='value)* }.
func parse(clause string) (Attributes, error) {
	clause = strings.TrimSpace(clause)
	if !strings.HasPrefix(clause, "{") || !strings.HasSuffix(clause, "}") {
		return Attributes{}, ErrMalformed
	}
	body := strings.TrimSpace(clause[1 : len(clause)-1])

	var a Attributes
	i := 0
	for i < len(body) {
		for i < len(body) && body[i] == ' ' {
			i++
		}
		if i >= len(body) {
			break
		}
		switch body[i] {
		case '#':
			word, next := bareToken(body, i+1)
			if a.ID != "" {
				return Attributes{}, fmt.Errorf("%w: multiple identifiers", ErrMalformed)
			}
			a.ID = word
			i = next
		case '.':
			word, next := bareToken(body, i+1)
			if word == "" {
				return Attributes{}, fmt.Errorf("%w: empty class", ErrMalformed)
			}
			a.Classes = append(a.Classes, word)
			i = next
		default:
			key, next := keyToken(body, i)
			if key == "" || next >= len(body) || body[next] != '=' {
				return Attributes{}, fmt.Errorf("%w: expected key=value at %q", ErrMalformed, body[i:])
			}
			value, next, err := valueToken(body, next+1)
			if err != nil {
				return Attributes{}, err
			}
			a.KVs = append(a.KVs, pandoc.KV{Key: key, Value: value})
			i = next
		}
	}
	return a, nil
}

// bareToken reads up to the next space.
func bareToken(s string, i int) (string, int) {
	j := i
	for j < len(s) && s[j] != ' ' {
		j++
	}
	return s[i:j], j
}

// keyToken reads up to '=' or space.
func keyToken(s string, i int) (string, int) {
	j := i
	for j < len(s) && s[j] != ' ' && s[j] != '=' {
		j++
	}
	return s[i:j], j
}

// valueToken reads a bare or quoted value. Matching single or double quotes
// are stripped; no other unescaping is performed.
func valueToken(s string, i int) (string, int, error) {
	if i < len(s) && (s[i] == '"' || s[i] == '\'') {
		quote := s[i]
		j := i + 1
		for j < len(s) && s[j] != quote {
			j++
		}
		if j >= len(s) {
			return "", 0, fmt.Errorf("%w: unterminated quoted value", ErrMalformed)
		}
		return s[i+1 : j], j + 1, nil
	}
	word, next := bareToken(s, i)
	return word, next, nil
}
