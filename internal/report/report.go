// Package report aggregates non-fatal diagnostics. The filter's stdout
// carries the document JSON, so everything here goes to stderr, and repeated
// occurrences of the same issue are collapsed into one summary line instead
// of being interleaved with the output.
package report

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/fatih/color"
)

// Warning levels, set from document metadata.
const (
	LevelQuiet = 0 // no warnings
	LevelSome  = 1 // authoring problems (duplicate labels, unresolved refs)
	LevelAll   = 2 // everything, including informational notices
)

type entry struct {
	text  string
	level int
	count int
	order int
}

// Reporter collects warnings during a run and writes them once at the end.
type Reporter struct {
	mu      sync.Mutex
	level   int
	out     io.Writer
	entries map[string]*entry
}

// New returns a reporter writing to out at the given level.
func New(level int, out io.Writer) *Reporter {
	return &Reporter{level: level, out: out, entries: make(map[string]*entry)}
}

// SetLevel adjusts the level; the warning-level metadata key is only known
// after the metadata has been read, which may itself warn.
func (r *Reporter) SetLevel(level int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = level
}

// Warnf records a warning emitted at the given minimum level. Identical
// messages are counted, not repeated.
func (r *Reporter) Warnf(minLevel int, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text := fmt.Sprintf(format, args...)
	if e, ok := r.entries[text]; ok {
		e.count++
		if minLevel < e.level {
			e.level = minLevel
		}
		return
	}
	r.entries[text] = &entry{text: text, level: minLevel, count: 1, order: len(r.entries)}
}

// Flush writes the collected warnings that pass the level gate and resets
// the reporter.
func (r *Reporter) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shown []*entry
	for _, e := range r.entries {
		if e.level <= r.level {
			shown = append(shown, e)
		}
	}
	sort.Slice(shown, func(i, j int) bool { return shown[i].order < shown[j].order })

	warn := color.New(color.FgYellow)
	for _, e := range shown {
		if e.count > 1 {
			warn.Fprintf(r.out, "pandoc-tablenos: %s (x%d)\n", e.text, e.count)
		} else {
			warn.Fprintf(r.out, "pandoc-tablenos: %s\n", e.text)
		}
	}
	r.entries = make(map[string]*entry)
}

// Count returns how many distinct warnings would be shown at the current
// level.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.level <= r.level {
			n++
		}
	}
	return n
}
