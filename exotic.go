package cotick

import "fmt"

type exoticKind int8

const (
	_ exoticKind = iota
	exoticDispose
	exoticOptions
)

// An Exotic is a side-channel yield value. Yielding one does not suspend
// the procedure: the task applies its effect immediately and resumes
// without consuming a tick.
//
// Exotic is a closed set of kinds, constructed with [OnDispose] and
// [Configure]. The distinct kind tag is what lets a task tell an Exotic
// apart from an ordinary [Awaiter]; no structural inspection is involved.
type Exotic struct {
	kind    exoticKind
	dispose func()
	opts    []Option
}

// OnDispose returns an [Exotic] that registers f to run when the yielding
// task is disposed. Hooks run in last-in-first-out order, before any
// currently-awaited nested task is disposed.
func OnDispose(f func()) Exotic {
	if f == nil {
		panic("cotick: OnDispose: nil func")
	}
	return Exotic{kind: exoticDispose, dispose: f}
}

// Configure returns an [Exotic] that shallow-merges opts into the yielding
// task's current default awaiter options. Only awaiters adopted after this
// point in the procedure see the merged defaults; sub-tasks started later
// inherit them too.
func Configure(opts ...Option) Exotic {
	return Exotic{kind: exoticOptions, opts: opts}
}

func (t *Task) applyExotic(x Exotic) {
	switch x.kind {
	case exoticDispose:
		t.hooks = append(t.hooks, x.dispose)
	case exoticOptions:
		t.opts = t.opts.with(x.opts)
	default:
		panic(fmt.Sprintf("cotick: internal error: unknown exotic kind %d", x.kind))
	}
}
