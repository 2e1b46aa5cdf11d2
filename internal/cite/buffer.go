// Package cite accumulates rewritten citation records over one session and
// flushes them to a bibliography file as a unit.
package cite

// Entry is one buffered citation record awaiting export.
type Entry struct {
	Key  string `json:"key"`  // caller-chosen citation key, unique in the buffer
	Text string `json:"text"` // full record text, key already rewritten
}

// Buffer holds at most one entry per citation key, in insertion order.
// Inserting a duplicate key overwrites the prior entry in place
// (last-write-wins). A Buffer is owned by one session and is not safe for
// concurrent use; callers serialize access.
type Buffer struct {
	entries []Entry
	index   map[string]int
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{index: make(map[string]int)}
}

// Put inserts or overwrites the entry for key and reports whether a prior
// entry was overwritten. Overwriting keeps the key's original position.
func (b *Buffer) Put(key, text string) (overwritten bool) {
	if i, ok := b.index[key]; ok {
		b.entries[i].Text = text
		return true
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Text: text})
	return false
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the buffered entries in insertion order.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.entries = nil
	b.index = make(map[string]int)
}
