package cotick

// A Batch collects marker-keyed effects without priorities. Adding an
// effect under a marker that is already pending replaces the effect, so the
// last write before Flush wins. Effects run in first-add order.
//
// A Batch backs the batched delivery mode of [Event]; for priority-ordered
// deferral use a [JobQueue] instead.
type Batch struct {
	order []any
	fns   map[any]func()
}

// Add makes fn pending under marker, replacing any effect already pending
// for the same marker.
func (b *Batch) Add(marker any, fn func()) {
	if fn == nil {
		panic("cotick: Batch.Add: nil effect")
	}
	if b.fns == nil {
		b.fns = make(map[any]func())
	}
	if _, ok := b.fns[marker]; !ok {
		b.order = append(b.order, marker)
	}
	b.fns[marker] = fn
}

// Len returns the number of pending markers.
func (b *Batch) Len() int {
	return len(b.order)
}

// Flush runs every pending effect once, in the order the markers were first
// added, and clears the batch. Effects added during Flush land in the next
// cycle.
func (b *Batch) Flush() {
	order, fns := b.order, b.fns
	b.order, b.fns = nil, nil
	for _, m := range order {
		fns[m]()
	}
}
