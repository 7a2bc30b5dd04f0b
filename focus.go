package cotick

import "github.com/google/uuid"

// A FocusArbiter grants exclusive logical focus to at most one
// [FocusTarget] at a time. There is no queueing: the latest Focus call
// always wins immediately, implicitly deactivating the previous target.
// The arbiter fires no callback for the deactivated target; listeners that
// need symmetric cleanup must Blur explicitly.
//
// Each [Scheduler] owns one arbiter.
type FocusArbiter struct {
	active   *FocusTarget
	onChange func(id string)
}

// A FocusTarget is a handle representing a claim over input within one
// arbiter.
type FocusTarget struct {
	arb *FocusArbiter
	id  string
}

// NewFocusArbiter returns an arbiter with no active target.
func NewFocusArbiter() *FocusArbiter {
	return &FocusArbiter{}
}

// OnActiveChanged registers the observer invoked with the new active
// target's identifier whenever the active slot changes, or with "" when the
// slot empties. At most one observer; used for host diagnostics.
func (a *FocusArbiter) OnActiveChanged(f func(id string)) {
	a.onChange = f
}

// NewTarget creates a handle. The name is for diagnostics; the returned
// target's identifier is the name plus a unique suffix, so two targets
// created with the same name stay distinguishable in host logs.
func (a *FocusArbiter) NewTarget(name string) *FocusTarget {
	return &FocusTarget{arb: a, id: name + ":" + uuid.NewString()}
}

// Active reports whether any target currently holds focus. Tasks that want
// to run "only when nothing else claims focus" poll the negation; that is
// the default focus query a [Scheduler] gives its tasks.
func (a *FocusArbiter) Active() bool {
	return a.active != nil
}

// ActiveID returns the active target's identifier, or "" if none.
func (a *FocusArbiter) ActiveID() string {
	if a.active == nil {
		return ""
	}
	return a.active.id
}

func (a *FocusArbiter) setActive(t *FocusTarget) {
	a.active = t
	if a.onChange != nil {
		a.onChange(a.ActiveID())
	}
}

// ID returns the target's identifier.
func (t *FocusTarget) ID() string { return t.id }

// Focus makes t the active target, deactivating whichever target held
// focus before. Focusing the already-active target is a no-op.
func (t *FocusTarget) Focus() {
	if t.arb.active == t {
		return
	}
	t.arb.setActive(t)
}

// Blur releases focus if t holds it; otherwise it is a no-op.
func (t *FocusTarget) Blur() {
	if t.arb.active != t {
		return
	}
	t.arb.setActive(nil)
}

// Focused reports whether t is the active target.
func (t *FocusTarget) Focused() bool {
	return t.arb.active == t
}
