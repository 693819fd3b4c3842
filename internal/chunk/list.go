// Package chunk provides an append-only list that stores elements in
// progressively larger chunks. Appends never move elements that were already
// stored, so pointers into the list stay valid for its whole lifetime.
//
// A List is owned by exactly one writer; it performs no locking.
package chunk

// defaultFirstChunk is the capacity of the first allocated chunk.
const defaultFirstChunk = 8

// maxChunk caps chunk growth so a mostly-idle list does not reserve
// large amounts of memory up front.
const maxChunk = 1024

// List is an append-only sequence of T with stable element addresses.
// The zero value is ready to use.
type List[T any] struct {
	chunks [][]T
	length int
}

// Append adds v to the end of the list and returns a pointer to the stored
// element. The pointer remains valid until the list is discarded.
func (l *List[T]) Append(v T) *T {
	last := len(l.chunks) - 1
	if last < 0 || len(l.chunks[last]) == cap(l.chunks[last]) {
		size := defaultFirstChunk
		if last >= 0 {
			size = cap(l.chunks[last]) * 2
			if size > maxChunk {
				size = maxChunk
			}
		}
		l.chunks = append(l.chunks, make([]T, 0, size))
		last++
	}
	l.chunks[last] = append(l.chunks[last], v)
	l.length++
	return &l.chunks[last][len(l.chunks[last])-1]
}

// Len returns the number of stored elements.
func (l *List[T]) Len() int {
	return l.length
}

// Each calls fn for every element in append order.
func (l *List[T]) Each(fn func(*T)) {
	for i := range l.chunks {
		c := l.chunks[i]
		for j := range c {
			fn(&c[j])
		}
	}
}
