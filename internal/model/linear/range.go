package linear

import "fmt"

// Range is a pair of offsets into a linear sequence. From is the anchor and
// To the head, so From may exceed To for a backwards selection. A collapsed
// range (From == To) represents a caret. Pure value type; no ownership.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// NewRange returns the range [from, to).
func NewRange(from, to int) Range {
	return Range{From: from, To: to}
}

// NewCollapsedRange returns a caret at the given offset.
func NewCollapsedRange(offset int) Range {
	return Range{From: offset, To: offset}
}

// Collapsed reports whether the range is a caret.
func (r Range) Collapsed() bool { return r.From == r.To }

// Backwards reports whether the anchor follows the head.
func (r Range) Backwards() bool { return r.From > r.To }

// Start returns the lesser offset.
func (r Range) Start() int {
	if r.Backwards() {
		return r.To
	}
	return r.From
}

// End returns the greater offset.
func (r Range) End() int {
	if r.Backwards() {
		return r.From
	}
	return r.To
}

// Normalized returns the range with From <= To, losing direction.
func (r Range) Normalized() Range {
	return Range{From: r.Start(), To: r.End()}
}

// Len returns the number of offsets covered.
func (r Range) Len() int { return r.End() - r.Start() }

// Contains reports whether the offset lies within the normalized range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start() && offset < r.End()
}

// Within reports whether the whole range lies inside [0, length].
func (r Range) Within(length int) bool {
	return r.Start() >= 0 && r.End() <= length
}

// String returns "(from,to)".
func (r Range) String() string {
	return fmt.Sprintf("(%d,%d)", r.From, r.To)
}
