package linear

import (
	"encoding/json"
	"strings"

	"github.com/rivo/uniseg"
)

// Data is the linear representation of a document: a flat sequence of items
// addressed by offset.
type Data []Item

// FromString converts plain text into unannotated content units, one per
// grapheme cluster.
func FromString(s string) Data {
	if s == "" {
		return nil
	}
	d := make(Data, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		d = append(d, NewChar(gr.Str()))
	}
	return d
}

// Len returns the number of items.
func (d Data) Len() int { return len(d) }

// Clone returns a deep copy of the data, including annotation sets and
// attribute maps.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for i, it := range d {
		out[i] = it.Clone()
	}
	return out
}

// Slice returns a shallow copy of the items in [from, to). Bounds are the
// caller's contract.
func (d Data) Slice(from, to int) Data {
	out := make(Data, to-from)
	copy(out, d[from:to])
	return out
}

// Splice replaces removeCount items at offset with the given items and
// returns the removed items. Offset and offset+removeCount must lie within
// the data; bounds are the caller's contract.
func (d *Data) Splice(offset, removeCount int, items ...Item) Data {
	removed := make(Data, removeCount)
	copy(removed, (*d)[offset:offset+removeCount])

	tail := (*d)[offset+removeCount:]
	grown := make(Data, 0, len(*d)-removeCount+len(items))
	grown = append(grown, (*d)[:offset]...)
	grown = append(grown, items...)
	grown = append(grown, tail...)
	*d = grown
	return removed
}

// DataRange returns a deep copy of the items in the normalized range. Bounds
// are the caller's contract.
func (d Data) DataRange(r Range) Data {
	r = r.Normalized()
	return d.Slice(r.From, r.To).Clone()
}

// CountContent returns the number of content units in the normalized range.
func (d Data) CountContent(r Range) int {
	r = r.Normalized()
	n := 0
	for _, it := range d[r.From:r.To] {
		if it.IsContent() {
			n++
		}
	}
	return n
}

// ContentText returns the concatenated text of the content units in the
// normalized range, skipping structural markers.
func (d Data) ContentText(r Range) string {
	r = r.Normalized()
	var b strings.Builder
	for _, it := range d[r.From:r.To] {
		if it.IsContent() {
			b.WriteString(it.Text)
		}
	}
	return b.String()
}

// String returns the full content text of the data.
func (d Data) String() string {
	return d.ContentText(NewRange(0, len(d)))
}

// Equal reports whether both sequences hold equal items in the same order.
func (d Data) Equal(other Data) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !d[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the data as an interchange array. Empty data encodes as
// an empty array, not null.
func (d Data) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Item(d))
}

// UnmarshalJSON decodes an interchange array.
func (d *Data) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*d = items
	return nil
}
