package cotick

// A Context carries whatever per-tick data the host supplies: elapsed time,
// raw input, frame number. The scheduler hands the same value to every task
// and sub-task advanced within one tick and never inspects or mutates it.
type Context any

// A Result is the outcome of polling an [Awaiter] once.
// Done reports whether the suspension condition has resolved; Data carries
// the value the suspended procedure resumes with.
type Result struct {
	Done bool
	Data any
}

// An Awaiter is a suspension condition: a predicate over tick context that
// a [Task] polls once per tick until it resolves.
//
// An Awaiter must be stateless between polls except for internally-held
// progress counters (e.g. "N ticks elapsed"). An Awaiter never owns a task,
// though it may reference one when wrapping it.
type Awaiter interface {
	Poll(ctx Context) Result
}

// An AwaiterFunc is a func that implements the [Awaiter] interface.
type AwaiterFunc func(ctx Context) Result

// Poll implements the [Awaiter] interface.
func (f AwaiterFunc) Poll(ctx Context) Result { return f(ctx) }

// Ticks returns an [Awaiter] that resolves on its n-th poll, i.e. after
// exactly n ticks. Panics if n is not positive.
func Ticks(n int) Awaiter {
	if n < 1 {
		panic("cotick: Ticks: n must be positive")
	}
	return &ticksAwaiter{left: n}
}

// OneTick returns an [Awaiter] that resolves on its first poll.
// Yielding nil is equivalent.
func OneTick() Awaiter {
	return Ticks(1)
}

type ticksAwaiter struct {
	left int
}

func (a *ticksAwaiter) Poll(Context) Result {
	a.left--
	return Result{Done: a.left <= 0}
}

// Timeout returns an [Awaiter] like [Ticks], except that the tick count is
// taken from the enclosing task's current default options (see
// [WithTimeoutTicks] and [Configure]) at the moment the awaiter is yielded.
// Outside a task, or when no default was ever configured, it resolves after
// one tick.
func Timeout() Awaiter {
	return &timeoutAwaiter{}
}

type timeoutAwaiter struct {
	left int
}

func (a *timeoutAwaiter) bindDefaults(o Options) {
	if a.left == 0 {
		a.left = o.timeoutTicks()
	}
}

func (a *timeoutAwaiter) Poll(Context) Result {
	if a.left == 0 {
		a.left = 1
	}
	a.left--
	return Result{Done: a.left <= 0}
}

// Never returns an [Awaiter] that never resolves. A task suspended on it
// stays suspended until it is disposed.
func Never() Awaiter {
	return AwaiterFunc(func(Context) Result { return Result{} })
}

// Options are a task's default awaiter options. Primitives that consult
// defaults (currently [Timeout]) read them when a task adopts the yielded
// awaiter; awaiters constructed with explicit arguments ignore them.
//
// A task starts with its parent's options (or the zero value at top level)
// and shallow-merges patches applied by [Configure].
type Options struct {
	// TimeoutTicks is the tick count used by [Timeout]. Zero means unset;
	// the effective default is one tick.
	TimeoutTicks int
}

func (o Options) timeoutTicks() int {
	if o.TimeoutTicks > 0 {
		return o.TimeoutTicks
	}
	return 1
}

// An Option patches a single field of [Options].
type Option func(*Options)

// WithTimeoutTicks sets the tick count used by [Timeout] awaiters.
func WithTimeoutTicks(n int) Option {
	if n < 1 {
		panic("cotick: WithTimeoutTicks: n must be positive")
	}
	return func(o *Options) { o.TimeoutTicks = n }
}

func (o Options) with(opts []Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// defaultsBinder is implemented by awaiters that take unset knobs from
// the adopting task's default options.
type defaultsBinder interface {
	bindDefaults(Options)
}

// ownerBinder is implemented by awaiters that need to know which task
// adopted them, e.g. to start sub-tasks under its path and focus query.
type ownerBinder interface {
	bindOwner(*Task)
}

// disposer is implemented by awaiters that hold disposable resources
// (nested tasks). Disposing a suspended task disposes its awaiter too.
type disposer interface {
	dispose()
}
