package cotick

import (
	"slices"
	"sort"
)

type lesser[E any] interface {
	less(v E) bool
}

// priorityqueue keeps its elements sorted at all times, using binary-search
// insertion. Elements that compare equal keep their arrival order (FIFO),
// which the [JobQueue] relies on for same-priority jobs.
type priorityqueue[E lesser[E]] struct {
	items []E
}

func (q *priorityqueue[E]) Empty() bool {
	return len(q.items) == 0
}

func (q *priorityqueue[E]) Push(v E) {
	i := sort.Search(len(q.items), func(i int) bool {
		return v.less(q.items[i])
	})
	q.items = slices.Insert(q.items, i, v)
}

func (q *priorityqueue[E]) Pop() (v E) {
	v, q.items[0] = q.items[0], v // Clear the slot for the GC.
	q.items = q.items[1:]
	return v
}
