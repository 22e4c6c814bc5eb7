package arena

// Table is a contiguous, append-only table indexed from zero.
// The zero value is an empty table ready for use.
type Table[T any] struct {
	buf []T
}

// NewTable creates a Table with room for capacity entries before growing.
func NewTable[T any](capacity int) *Table[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Table[T]{
		buf: make([]T, 0, capacity),
	}
}

// Append adds v at index Len().
func (t *Table[T]) Append(v T) {
	t.buf = append(t.buf, v)
}

// Get returns the entry at i. ok is false if i is not yet present.
func (t *Table[T]) Get(i int) (v T, ok bool) {
	if i < 0 || i >= len(t.buf) {
		return v, false
	}
	return t.buf[i], true
}

// Last returns the most recently appended entry. ok is false if the table is empty.
func (t *Table[T]) Last() (v T, ok bool) {
	if len(t.buf) == 0 {
		return v, false
	}
	return t.buf[len(t.buf)-1], true
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.buf)
}

// Slice returns the entries in [from, to). The slice aliases the table and
// must be treated as read-only; it is invalidated by the next Append or Reset.
func (t *Table[T]) Slice(from, to int) []T {
	return t.buf[from:to]
}

// Reset empties the table and keeps the allocated capacity.
func (t *Table[T]) Reset() {
	clear(t.buf)
	t.buf = t.buf[:0]
}
