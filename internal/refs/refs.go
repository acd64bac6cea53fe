// Package refs holds the label-to-target mapping shared by the numbering
// pass and the resolution pass. The table is write-once-then-read: the
// numbering pass populates it completely before any lookup happens, which is
// what makes forward references legal.
package refs

import "strconv"

// Target is the resolved value assigned to a label: a sequential number, or
// a user-supplied tag overriding it.
type Target struct {
	Number    int
	Tag       string
	Tagged    bool
	Section   string
	Duplicate bool // label was assigned more than once; last writer won
}

// String renders the target value as caption/reference text.
func (t Target) String() string {
	if t.Tagged {
		return t.Tag
	}
	return strconv.Itoa(t.Number)
}

// IsMath reports whether a tagged value encodes inline math ($...$).
func (t Target) IsMath() bool {
	return t.Tagged && len(t.Tag) >= 2 && t.Tag[0] == '$' && t.Tag[len(t.Tag)-1] == '$'
}

// MathText returns the tag with the math delimiters stripped.
func (t Target) MathText() string {
	if !t.IsMath() {
		return t.Tag
	}
	return t.Tag[1 : len(t.Tag)-1]
}

// Table maps labels to targets in document order.
type Table struct {
	targets map[string]Target
	order   []string
}

// New returns an empty reference table.
func New() *Table {
	return &Table{targets: make(map[string]Target)}
}

// Set records a target for a label. A repeated label overwrites the earlier
// entry (last writer wins) and is flagged as a duplicate; Set reports
// whether the label was already present.
func (t *Table) Set(label string, target Target) bool {
	_, dup := t.targets[label]
	if dup {
		target.Duplicate = true
	} else {
		t.order = append(t.order, label)
	}
	t.targets[label] = target
	return dup
}

// Get looks up a label.
func (t *Table) Get(label string) (Target, bool) {
	target, ok := t.targets[label]
	return target, ok
}

// Len is the number of distinct labels recorded.
func (t *Table) Len() int { return len(t.targets) }

// Labels returns the labels in first-assignment order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
