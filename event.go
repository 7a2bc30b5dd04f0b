package cotick

import "slices"

// An Event is a minimal single-topic publish mechanism.
//
// Emit records the latest value and dispatches it to the listeners
// according to the delivery mode: immediately (the default), coalesced
// through a [Batch], or deferred through a [JobQueue] at a fixed priority.
// In both deferred modes repeated emits before the flush deliver only once,
// with the latest value.
//
// Enabling one deferred mode does not disable the other; avoiding that is
// the caller's responsibility. If both are enabled anyway, job-scheduled
// delivery wins and the batched registration goes unused.
//
// An Event is not safe for concurrent use, like everything else in this
// package.
type Event[T any] struct {
	handlers []*func(T)
	last     T
	batch    *Batch
	queue    *JobQueue
}

// Listen registers a handler and returns the function that removes it.
// Removing twice is a no-op.
func (e *Event[T]) Listen(f func(T)) (remove func()) {
	if f == nil {
		panic("cotick: Event.Listen: nil handler")
	}
	h := &f
	e.handlers = append(e.handlers, h)
	return func() {
		if i := slices.Index(e.handlers, h); i != -1 {
			e.handlers = slices.Delete(e.handlers, i, i+1)
		}
	}
}

// Emit records v as the latest value and dispatches per the delivery mode.
func (e *Event[T]) Emit(v T) {
	e.last = v
	switch {
	case e.queue != nil:
		e.queue.Schedule(e)
	case e.batch != nil:
		e.batch.Add(e, e.dispatch)
	default:
		e.dispatch()
	}
}

// DeliverBatched coalesces deliveries through b, keyed by the event's own
// identity.
func (e *Event[T]) DeliverBatched(b *Batch) {
	e.batch = b
}

// DeliverScheduled defers deliveries through q at the given priority,
// keyed by the event's own identity. The event registers itself in q here,
// so calling this twice panics like any duplicate registration.
func (e *Event[T]) DeliverScheduled(q *JobQueue, priority int) {
	q.Register(e, priority, e.dispatch)
	e.queue = q
}

func (e *Event[T]) dispatch() {
	v := e.last
	for _, h := range slices.Clone(e.handlers) {
		(*h)(v)
	}
}
