package cotick

// A Resolver decides when a [Nest] awaiter resolves. It is called once per
// tick with the full per-child result vector: results[i] is nil while child
// i is still pending, and stays set once child i resolved. A resolved child
// is never advanced again; once done, a child never "un-resolves".
type Resolver func(ctx Context, results []*Result) Result

// Nest builds a compound [Awaiter] from an ordered set of awaiter-castable
// children (primitive awaiters, bare procedures, prebuilt tasks, or further
// combinators) and a resolution function.
//
// Each tick, every still-pending child is advanced exactly once, in
// declaration order; children that are tasks are handled, and their
// completion is represented as a bare done result. After the sweep the
// resolver is consulted with the full vector.
//
// Children are adopted (procedures started under the owning task's path,
// focus query and defaults) when a task adopts the Nest awaiter itself.
// Disposing the owning task recursively disposes every child that is a
// task, and the owning task likewise disposes the whole set when the
// combinator resolves, so a losing racer never outlives the race.
// Primitive children hold no resources.
func Nest(resolve Resolver, children ...any) Awaiter {
	if resolve == nil {
		panic("cotick: Nest: nil Resolver")
	}
	return &nestAwaiter{resolve: resolve, raw: children}
}

// One builds an [Awaiter] that resolves as soon as any child does, with
// Data set to the index of the resolved child. If several children resolve
// on the same tick, the lowest index wins.
func One(children ...any) Awaiter {
	return Nest(func(_ Context, results []*Result) Result {
		for i, r := range results {
			if r != nil {
				return Result{Done: true, Data: i}
			}
		}
		return Result{}
	}, children...)
}

// All builds an [Awaiter] that resolves once every child has, with Data set
// to a []any of the children's payloads in declaration order. Task children
// contribute nil payloads.
func All(children ...any) Awaiter {
	return Nest(func(_ Context, results []*Result) Result {
		data := make([]any, len(results))
		for i, r := range results {
			if r == nil {
				return Result{}
			}
			data[i] = r.Data
		}
		return Result{Done: true, Data: data}
	}, children...)
}

type nestAwaiter struct {
	resolve  Resolver
	raw      []any
	children []Awaiter
	results  []*Result
}

func (a *nestAwaiter) bindOwner(owner *Task) {
	if a.children != nil {
		panic("cotick: Nest awaiter adopted twice")
	}
	a.children = make([]Awaiter, len(a.raw))
	a.results = make([]*Result, len(a.raw))
	for i, v := range a.raw {
		a.children[i] = castAwaiter(owner, v)
	}
	a.raw = nil
}

func (a *nestAwaiter) Poll(ctx Context) Result {
	if a.children == nil {
		// Polled without ever being adopted by a task.
		a.bindOwner(nil)
	}
	for i, c := range a.children {
		if a.results[i] != nil {
			continue
		}
		if res := c.Poll(ctx); res.Done {
			a.results[i] = &res
			// A resolved child is never advanced again, so any
			// sub-tasks it still holds are unwound now rather
			// than left parked until the whole nest resolves.
			if d, ok := c.(disposer); ok {
				d.dispose()
			}
		}
	}
	return a.resolve(ctx, a.results)
}

func (a *nestAwaiter) dispose() {
	for _, c := range a.children {
		if d, ok := c.(disposer); ok {
			d.dispose()
		}
	}
}
