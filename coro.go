package cotick

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// A Proc is the resumable procedure a [Task] drives. It is ordinary
// sequential Go code; every call to [Coro.Yield] is a suspension point.
//
// A Proc runs on a dedicated goroutine, but execution is strictly
// hand-over-hand with the task runtime: while the procedure runs the host
// goroutine is blocked, and vice versa. From inside a Proc the world is
// single-threaded.
type Proc func(co *Coro)

// A Coro is the handle a [Proc] suspends and resumes through. It is only
// valid inside the procedure it was passed to and must not escape to
// another goroutine.
type Coro struct {
	task     *Task
	in       chan resumeMsg // runtime -> procedure
	out      chan yieldMsg  // procedure -> runtime
	canceled bool

	// running is true while the procedure is executing, false while it
	// is parked in Yield. Only ever read and written around the channel
	// handoffs, so no further synchronization is needed.
	running bool
}

type resumeMsg struct {
	data   any
	cancel bool
}

type yieldMsg struct {
	value any // the yielded awaitable
	done  bool
	pv    *panicValue
}

// cancelSignal unwinds a procedure when its task is disposed. Yield panics
// with it; the trampoline swallows it. User code that recovers it by
// accident cannot keep the procedure alive: the next Yield re-raises.
type cancelSignal struct{}

// Yield suspends the procedure on v and, once v resolves, returns the data
// it resolved with.
//
// v may be an [Awaiter], a [Proc] or bare func(*Coro), a prebuilt [*Task]
// (run as a nested task until its procedure completes), an [Exotic]
// (applied immediately, no tick consumed), or nil (wait exactly one tick).
// Any other value panics.
//
// Procedures and tasks yielded here run their first stretch of code
// synchronously, before Yield returns control to the runtime.
func (co *Coro) Yield(v any) any {
	if co.canceled {
		panic(cancelSignal{})
	}
	if x, ok := v.(Exotic); ok {
		// The runtime is blocked waiting on co.out, so the procedure
		// owns the task state right now.
		co.task.applyExotic(x)
		return nil
	}
	co.running = false
	co.out <- yieldMsg{value: v}
	msg := <-co.in
	co.running = true
	if msg.cancel {
		co.canceled = true
		panic(cancelSignal{})
	}
	return msg.data
}

// OnDispose registers f to run when the task is disposed.
// Sugar for Yield([OnDispose](f)).
func (co *Coro) OnDispose(f func()) {
	co.Yield(OnDispose(f))
}

// Configure shallow-merges opts into the task's default awaiter options.
// Sugar for Yield([Configure](opts...)).
func (co *Coro) Configure(opts ...Option) {
	co.Yield(Configure(opts...))
}

// Focused reports the task's focus-query predicate: whether the task may
// currently act on input. See [GoFocusTarget] and [GoFocused].
func (co *Coro) Focused() bool {
	return co.task.focused()
}

// Path returns the task's identifier chain, for diagnostics.
func (co *Coro) Path() string {
	return co.task.path
}

// startProc launches the trampoline goroutine and leaves the runtime ready
// to receive the procedure's first yield.
func (t *Task) startProc() {
	co := &Coro{
		task: t,
		in:   make(chan resumeMsg),
		out:  make(chan yieldMsg),
	}
	t.co = co
	go func() {
		defer func() {
			msg := yieldMsg{done: true}
			if v := recover(); v != nil {
				if _, ok := v.(cancelSignal); !ok {
					msg.pv = &panicValue{taskPath: t.path, value: v, stack: debug.Stack()}
				}
			}
			co.running = false
			co.out <- msg
		}()
		co.running = true
		t.proc(co)
	}()
}

// A panicValue wraps a panic that escaped a task procedure. It implements
// error; the original panic value is reachable through Unwrap or Value.
type panicValue struct {
	taskPath string
	value    any
	stack    []byte
}

// Value returns the original panic value.
func (pv *panicValue) Value() any { return pv.value }

func (pv *panicValue) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cotick: task %s panicked: %v", pv.taskPath, pv.value)
	if len(pv.stack) != 0 {
		b.WriteString("\n\n")
		b.Write(pv.stack)
	}
	return b.String()
}

func (pv *panicValue) Unwrap() error {
	if err, ok := pv.value.(error); ok {
		return err
	}
	return nil
}
