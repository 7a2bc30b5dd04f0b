package cotick

import (
	"slices"

	"github.com/rs/zerolog"
)

// A Registry is the host-provided registration interface the [Scheduler]
// mirrors its bookkeeping into. Hosts use it to expose running coroutines
// in debug overlays, editors and the like; hosts that need none of that use
// a [MemoryRegistry].
type Registry interface {
	// RegisterCoroutine records a newly started top-level task.
	RegisterCoroutine(t *Task)

	// DeregisterCoroutine removes a task. It must fail loudly if the
	// task is not currently registered; a silent miss would hide
	// double-dispose bugs.
	DeregisterCoroutine(t *Task)

	// HandleActiveFocusTargetChanged reports the identifier of the new
	// active focus target, or "" when focus was released. Diagnostics
	// only.
	HandleActiveFocusTargetChanged(id string)
}

// A Scheduler registers top-level tasks and drives them once per tick.
// It owns one [FocusArbiter].
//
// A Scheduler is single-threaded: Tick, Go and Stop must all be called from
// the host's tick goroutine.
type Scheduler struct {
	reg   Registry
	focus *FocusArbiter
	log   zerolog.Logger
	tasks []*Task // registration order
}

// A SchedulerOption configures [NewScheduler].
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger the scheduler emits diagnostics to.
// The default is zerolog.Nop().
func WithLogger(log zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = log }
}

// NewScheduler creates a scheduler backed by the given registry. A nil
// registry gets a fresh [MemoryRegistry].
func NewScheduler(reg Registry, opts ...SchedulerOption) *Scheduler {
	if reg == nil {
		reg = NewMemoryRegistry()
	}
	s := &Scheduler{
		reg:   reg,
		focus: NewFocusArbiter(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.focus.OnActiveChanged(func(id string) {
		s.log.Debug().Str("target", id).Msg("active focus target changed")
		s.reg.HandleActiveFocusTargetChanged(id)
	})
	return s
}

// Focus returns the scheduler's focus arbiter.
func (s *Scheduler) Focus() *FocusArbiter {
	return s.focus
}

// A GoOption configures a single [Scheduler.Go] call.
type GoOption func(*goConfig)

type goConfig struct {
	focused  func() bool
	defaults Options
}

// GoFocused sets the task's focus-query predicate.
func GoFocused(f func() bool) GoOption {
	return func(c *goConfig) { c.focused = f }
}

// GoFocusTarget ties the task's focus query to a target: [Coro.Focused]
// reports whether the target currently holds focus.
func GoFocusTarget(t *FocusTarget) GoOption {
	return func(c *goConfig) { c.focused = t.Focused }
}

// GoDefaults seeds the task's default awaiter options.
func GoDefaults(opts ...Option) GoOption {
	return func(c *goConfig) { c.defaults = c.defaults.with(opts) }
}

// Go wraps p in a [Task], registers it, and starts it, running it
// synchronously to its first suspension point. Tasks are handled in
// registration order on every [Scheduler.Tick].
//
// The default focus query is "no focus target is active", the global
// fallback behavior; override it with [GoFocused] or [GoFocusTarget].
func (s *Scheduler) Go(name string, p Proc, opts ...GoOption) *Task {
	cfg := goConfig{
		focused: func() bool { return !s.focus.Active() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := NewTask(name, p)
	s.tasks = append(s.tasks, t)
	s.reg.RegisterCoroutine(t)
	s.log.Debug().Str("task", t.Name()).Msg("coroutine registered")

	t.Start(StartOptions{
		Focused:  cfg.focused,
		Remove:   func() { s.deregister(t) },
		Defaults: cfg.defaults,
	})
	return t
}

func (s *Scheduler) deregister(t *Task) {
	if i := slices.Index(s.tasks, t); i != -1 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	s.reg.DeregisterCoroutine(t)
	s.log.Debug().Str("task", t.Path()).Msg("coroutine deregistered")
}

// Stop disposes t; the removal callback deregisters it. Stopping a task
// that already completed is a no-op.
func (s *Scheduler) Stop(t *Task) {
	t.Dispose()
}

// Tick advances every registered top-level task by one step, in
// registration order. Tasks may complete, or register further tasks,
// mid-tick; tasks registered during a tick are first handled on the next
// one.
//
// A panic escaping a task is logged and rethrown; the offending task is
// left disposed and will not run again.
func (s *Scheduler) Tick(ctx Context) {
	for _, t := range slices.Clone(s.tasks) {
		s.handle(t, ctx)
	}
}

func (s *Scheduler) handle(t *Task, ctx Context) {
	defer func() {
		if v := recover(); v != nil {
			s.log.Error().Str("task", t.Path()).Msg("panic escaped coroutine")
			panic(v)
		}
	}()
	t.Handle(ctx)
}

// Len returns the number of currently registered top-level tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// A MemoryRegistry is the in-package [Registry]: a plain set of live tasks
// plus the last reported focus identifier.
type MemoryRegistry struct {
	tasks map[*Task]struct{}
	focus string
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{tasks: make(map[*Task]struct{})}
}

// RegisterCoroutine implements [Registry].
func (r *MemoryRegistry) RegisterCoroutine(t *Task) {
	if _, ok := r.tasks[t]; ok {
		panic("cotick: coroutine " + t.Name() + " already registered")
	}
	r.tasks[t] = struct{}{}
}

// DeregisterCoroutine implements [Registry]. Deregistering a task that is
// not registered panics.
func (r *MemoryRegistry) DeregisterCoroutine(t *Task) {
	if _, ok := r.tasks[t]; !ok {
		panic("cotick: coroutine " + t.Name() + " not registered")
	}
	delete(r.tasks, t)
}

// HandleActiveFocusTargetChanged implements [Registry].
func (r *MemoryRegistry) HandleActiveFocusTargetChanged(id string) {
	r.focus = id
}

// Len returns the number of registered tasks.
func (r *MemoryRegistry) Len() int { return len(r.tasks) }

// ActiveFocusTarget returns the last focus identifier reported, "" if none.
func (r *MemoryRegistry) ActiveFocusTarget() string { return r.focus }
