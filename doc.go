// Package cotick is a cooperative task-scheduling core for hosts that
// advance their world one discrete time step ("tick") at a time: game loops,
// interactive canvases, per-frame simulations.
//
// The host calls [Scheduler.Tick] once per tick with an opaque [Context]
// value. The scheduler then advances every registered [Task] by exactly one
// step. Everything runs on the host's goroutine; there is no parallelism and
// no preemption. A task only gives up control at an explicit yield point, so
// no task can ever observe a partial tick.
//
// # Tasks and Awaiters
//
// A [Task] wraps a resumable procedure, a [Proc]. Inside a procedure,
// [Coro.Yield] suspends until a condition resolves:
//
//	sched.Go("blink", func(co *cotick.Coro) {
//		for {
//			co.Yield(cotick.Ticks(30)) // half a second at 60 ticks/s
//			visible = !visible
//		}
//	})
//
// The condition is an [Awaiter]: a value that, given the tick context,
// reports whether it is done and, if so, with what data. Yield returns that
// data. Anything "awaiter-castable" can be yielded: a primitive Awaiter,
// a bare procedure or a prebuilt Task (both run as a nested task until they
// complete), an [Exotic] side effect, or nil to wait exactly one tick.
//
// Awaiters compose. [One] resolves with the index of whichever child
// resolves first, [All] waits for every child, and [Nest] accepts an
// arbitrary resolution function over the per-child results. Combinators
// nest: a child may itself be a One over further tasks.
//
// # Deferred effects
//
// A [JobQueue] coalesces marker-keyed effects: scheduling the same marker
// ten times within a tick runs its effect once at the next [JobQueue.Flush],
// ordered by priority. An [Event] is a single-topic channel whose delivery
// can be immediate, batched through a [Batch], or deferred through a
// JobQueue. Both exist so that many independent change notifications in one
// tick collapse into a single downstream recomputation.
//
// # Focus
//
// Each [Scheduler] owns a [FocusArbiter] that grants exclusive logical focus
// to at most one [FocusTarget] at a time. Tasks that should only act when
// nothing else claims the input (global fallback behavior) are the default;
// tasks tied to a particular target pass [GoFocusTarget].
//
// # Errors
//
// The package fails loudly. Programmer errors (registering a job marker
// twice, deregistering an unknown coroutine) panic immediately. A panic
// escaping a task procedure is not swallowed: the task is left disposed so
// it can never resume, and the panic propagates to the caller of Tick,
// wrapped with the task's path and the procedure's stack trace.
package cotick
