package cotick

import "fmt"

// A JobQueue defers and coalesces marker-keyed effects.
//
// A marker (any comparable identity value) is bound once, via Register,
// to an effect function and a priority. Scheduling a marker makes it
// pending for the next Flush; scheduling an already-pending marker is
// idempotent, so many independent change notifications within one tick
// collapse into a single execution of the downstream effect.
//
// Flush is invoked by the tick driver, not by task code.
type JobQueue struct {
	jobs    map[any]*job
	pending priorityqueue[*job]
	seq     uint64
}

type job struct {
	marker   any
	priority int
	fn       func()
	pending  bool
	seq      uint64 // first-scheduled order since the last flush
}

func (j *job) less(other *job) bool {
	if j.priority != other.priority {
		return j.priority > other.priority
	}
	return j.seq < other.seq
}

// Register binds marker to an effect at the given priority. Markers are
// permanently bound: registering the same marker twice is a programmer
// error and panics.
func (q *JobQueue) Register(marker any, priority int, fn func()) {
	if fn == nil {
		panic("cotick: JobQueue.Register: nil effect")
	}
	if q.jobs == nil {
		q.jobs = make(map[any]*job)
	}
	if _, ok := q.jobs[marker]; ok {
		panic(fmt.Sprintf("cotick: job marker %v already registered", marker))
	}
	q.jobs[marker] = &job{marker: marker, priority: priority, fn: fn}
}

// Schedule marks marker pending for the next [JobQueue.Flush]. Scheduling
// an unregistered marker panics; scheduling an already-pending marker is
// a no-op.
func (q *JobQueue) Schedule(marker any) {
	j, ok := q.jobs[marker]
	if !ok {
		panic(fmt.Sprintf("cotick: job marker %v not registered", marker))
	}
	if j.pending {
		return
	}
	j.pending = true
	q.seq++
	j.seq = q.seq
	q.pending.Push(j)
}

// Pending reports whether marker is scheduled for the next flush.
func (q *JobQueue) Pending(marker any) bool {
	j, ok := q.jobs[marker]
	return ok && j.pending
}

// Flush executes every pending effect exactly once, ordered by descending
// priority and, within one priority, by the order the markers were first
// scheduled since the last flush.
//
// The pending set is cleared before any effect runs, so an effect may
// re-schedule markers for the next flush without running twice in this one.
func (q *JobQueue) Flush() {
	var run []*job
	for !q.pending.Empty() {
		j := q.pending.Pop()
		j.pending = false
		run = append(run, j)
	}
	for _, j := range run {
		j.fn()
	}
}
