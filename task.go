package cotick

import (
	"fmt"
	"path"
	"strconv"
)

// A Task drives one resumable procedure: it starts it, feeds it tick
// context, interprets what it yields, and advances or disposes it.
//
// A top-level Task is owned by the [Scheduler] that registered it; a nested
// Task is owned by the parent that adopted it. The owner is responsible for
// calling [Task.Handle] once per tick and is the only party that should
// call [Task.Dispose].
type Task struct {
	name    string
	path    string
	proc    Proc
	co      *Coro
	waiting Awaiter // current suspension condition, nil unless suspended

	started  bool
	disposed bool

	opts    Options
	hooks   []func() // dispose hooks, run LIFO
	focused func() bool
	remove  func() // registration remover, invoked once on dispose

	nkids int
}

// NewTask wraps p in an unstarted [Task]. The name identifies the task in
// diagnostics and panic messages; it becomes the last element of the task's
// path once started.
func NewTask(name string, p Proc) *Task {
	if p == nil {
		panic("cotick: NewTask: nil Proc")
	}
	return &Task{name: name, proc: p}
}

// StartOptions configure [Task.Start].
type StartOptions struct {
	// Focused is the focus-query predicate exposed to the procedure as
	// [Coro.Focused]. Nil means always focused.
	Focused func() bool

	// Remove is invoked exactly once when the task disposes itself,
	// whether by completing, by panicking, or through [Task.Dispose].
	Remove func()

	// Parents is the accumulated identifier chain of the owners above
	// this task; the task's path is path.Join(Parents, name).
	Parents string

	// Defaults seed the task's default awaiter options, normally the
	// owner's current options.
	Defaults Options
}

// Start begins driving the procedure and runs it synchronously until its
// first suspension point. Starting a started task panics. If the procedure
// panics before first yielding, the task is left disposed and the panic is
// rethrown here.
func (t *Task) Start(o StartOptions) {
	if t.started {
		panic("cotick: task " + t.name + " already started")
	}
	t.started = true
	t.path = path.Join("/", o.Parents, t.name)
	t.opts = o.Defaults
	t.remove = o.Remove
	t.focused = o.Focused
	if t.focused == nil {
		t.focused = func() bool { return true }
	}

	defer t.disposeOnPanic()
	t.startProc()
	t.settle()
}

// Handle advances the task by one tick. If the current suspension condition
// does not resolve under ctx, Handle returns immediately. Otherwise the
// procedure resumes with the condition's data and runs synchronously until
// it yields again, completes, or panics.
//
// Handle on a disposed task is a no-op; a task is never resumed after an
// error escaped it.
func (t *Task) Handle(ctx Context) {
	if t.disposed {
		return
	}
	if !t.started {
		panic("cotick: task " + t.name + " not started")
	}

	defer t.disposeOnPanic()

	res := t.waiting.Poll(ctx)
	if !res.Done {
		return
	}
	// The condition resolved; cancel whatever it still holds before the
	// procedure resumes. A completed nested task disposes as a no-op,
	// but a combinator's losing sub-tasks get unwound here.
	if d, ok := t.waiting.(disposer); ok {
		d.dispose()
	}
	t.waiting = nil
	t.co.in <- resumeMsg{data: res.Data}
	t.settle()
}

// settle receives the procedure's next yield and interprets it.
func (t *Task) settle() {
	msg := <-t.co.out
	if msg.pv != nil {
		t.co = nil
		t.finish()
		panic(msg.pv)
	}
	if msg.done {
		t.co = nil
		t.finish()
		return
	}
	t.waiting = t.adopt(msg.value)
}

// adopt casts a yielded value into the [Awaiter] the task suspends on.
func (t *Task) adopt(v any) Awaiter {
	return castAwaiter(t, v)
}

// castAwaiter converts any awaiter-castable value into an [Awaiter].
// Procedure and task children are started under the owner's path, focus
// query and current default options. A nil owner (a combinator used outside
// any task) starts children with zero options.
func castAwaiter(owner *Task, v any) Awaiter {
	var so StartOptions
	if owner != nil {
		so = StartOptions{
			Focused:  owner.focused,
			Parents:  owner.path,
			Defaults: owner.opts,
		}
	}
	switch w := v.(type) {
	case nil:
		return Ticks(1)
	case Awaiter:
		if b, ok := w.(defaultsBinder); ok && owner != nil {
			b.bindDefaults(owner.opts)
		}
		if b, ok := w.(ownerBinder); ok {
			b.bindOwner(owner)
		}
		return w
	case Proc:
		return castAwaiter(owner, NewTask(childName(owner), w))
	case func(co *Coro):
		return castAwaiter(owner, NewTask(childName(owner), Proc(w)))
	case *Task:
		if !w.started {
			w.Start(so)
		}
		return taskAwaiter{w}
	default:
		panic(fmt.Sprintf("cotick: cannot await value of type %T", v))
	}
}

func childName(owner *Task) string {
	if owner == nil {
		return "#0"
	}
	owner.nkids++
	return "#" + strconv.Itoa(owner.nkids)
}

// Dispose cancels the task synchronously: the procedure unwinds, dispose
// hooks run in LIFO order, any currently-awaited nested task is disposed
// recursively, and the removal callback fires. Dispose is idempotent, and
// disposing a task that was never started is a no-op.
//
// A task cannot dispose itself: calling Dispose from inside the task's own
// procedure panics, which unwinds the procedure and leaves the task
// disposed once the panic reaches the tick driver.
func (t *Task) Dispose() {
	if !t.started {
		return
	}
	t.finish()
}

// disposeOnPanic leaves the task disposed when a panic is escaping Start or
// Handle, then lets the panic continue to the tick driver.
func (t *Task) disposeOnPanic() {
	if v := recover(); v != nil {
		t.finish()
		panic(v)
	}
}

func (t *Task) finish() {
	if t.disposed {
		return
	}
	if co := t.co; co != nil && co.running {
		// The procedure itself is the caller; there is nobody to
		// receive the cancel handshake. The panic unwinds the
		// procedure, and the runtime then disposes the task cleanly.
		panic("cotick: task " + t.path + " cannot dispose itself")
	}
	t.disposed = true

	if co := t.co; co != nil {
		// The procedure is parked in Yield; unwind it and wait for
		// the trampoline to hand back control.
		co.in <- resumeMsg{cancel: true}
		<-co.out
		t.co = nil
	}

	for i := len(t.hooks) - 1; i >= 0; i-- {
		t.hooks[i]()
	}
	t.hooks = nil

	if d, ok := t.waiting.(disposer); ok {
		d.dispose()
	}
	t.waiting = nil

	if remove := t.remove; remove != nil {
		t.remove = nil
		remove()
	}
}

// Name returns the task's own identifier.
func (t *Task) Name() string { return t.name }

// Path returns the task's identifier chain, for diagnostics. Empty until
// the task is started.
func (t *Task) Path() string { return t.path }

// Disposed reports whether the task has been disposed, either explicitly or
// by its procedure completing or panicking.
func (t *Task) Disposed() bool { return t.disposed }

// Started reports whether Start has been called.
func (t *Task) Started() bool { return t.started }

// taskAwaiter suspends an owner on a nested task's completion. It
// references the task; it does not own it beyond forwarding disposal.
type taskAwaiter struct {
	t *Task
}

func (a taskAwaiter) Poll(ctx Context) Result {
	a.t.Handle(ctx)
	return Result{Done: a.t.disposed}
}

func (a taskAwaiter) dispose() {
	a.t.Dispose()
}
