package cotick_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cotick/cotick"
)

func TestSchedulerHandlesInRegistrationOrder(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var order []string
	tick := func(name string) cotick.Proc {
		return func(co *cotick.Coro) {
			for {
				co.Yield(nil)
				order = append(order, name)
			}
		}
	}
	s.Go("a", tick("a"))
	s.Go("b", tick("b"))
	s.Go("c", tick("c"))

	drive(s, 2)
	require.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, order)
}

func TestSchedulerSharesContextWithinTick(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var seen []any
	grab := func(co *cotick.Coro) {
		for {
			seen = append(seen, co.Yield(cotick.AwaiterFunc(func(ctx cotick.Context) cotick.Result {
				return cotick.Result{Done: true, Data: ctx}
			})))
		}
	}
	s.Go("a", grab)
	s.Go("b", grab)

	s.Tick("tick-1")
	require.Equal(t, []any{"tick-1", "tick-1"}, seen)
}

func TestSchedulerStopDeregisters(t *testing.T) {
	reg := cotick.NewMemoryRegistry()
	s := cotick.NewScheduler(reg)

	task := s.Go("idle", func(co *cotick.Coro) {
		co.Yield(cotick.Never())
	})
	require.Equal(t, 1, reg.Len())

	s.Stop(task)
	require.Equal(t, 0, reg.Len())
	require.Equal(t, 0, s.Len())

	s.Stop(task) // idempotent via Dispose
}

func TestSchedulerDefaultFocusQueryIsGlobalFallback(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var readings []bool
	s.Go("fallback", func(co *cotick.Coro) {
		for {
			co.Yield(nil)
			readings = append(readings, co.Focused())
		}
	})

	s.Tick(nil)
	tgt := s.Focus().NewTarget("grab")
	tgt.Focus()
	s.Tick(nil)
	tgt.Blur()
	s.Tick(nil)

	require.Equal(t, []bool{true, false, true}, readings)
}

func TestSchedulerFocusTargetQuery(t *testing.T) {
	s := cotick.NewScheduler(nil)

	tgt := s.Focus().NewTarget("pad")

	var readings []bool
	s.Go("pad", func(co *cotick.Coro) {
		for {
			co.Yield(nil)
			readings = append(readings, co.Focused())
		}
	}, cotick.GoFocusTarget(tgt))

	s.Tick(nil)
	tgt.Focus()
	s.Tick(nil)

	require.Equal(t, []bool{false, true}, readings)
}

func TestSchedulerReportsFocusToRegistry(t *testing.T) {
	reg := cotick.NewMemoryRegistry()
	s := cotick.NewScheduler(reg)

	tgt := s.Focus().NewTarget("board")
	tgt.Focus()
	require.True(t, strings.HasPrefix(reg.ActiveFocusTarget(), "board:"))

	tgt.Blur()
	require.Equal(t, "", reg.ActiveFocusTarget())
}

func TestMemoryRegistryDeregisterUnknownPanics(t *testing.T) {
	reg := cotick.NewMemoryRegistry()
	require.Panics(t, func() {
		reg.DeregisterCoroutine(cotick.NewTask("ghost", func(co *cotick.Coro) {}))
	})
}

func TestSchedulerGoDuringTick(t *testing.T) {
	s := cotick.NewScheduler(nil)

	spawned := 0
	s.Go("spawner", func(co *cotick.Coro) {
		co.Yield(nil)
		s.Go("child", func(co *cotick.Coro) {
			for {
				co.Yield(nil)
				spawned++
			}
		})
	})

	s.Tick(nil) // spawner resumes and registers the child
	require.Equal(t, 0, spawned, "tasks registered mid-tick start next tick")
	s.Tick(nil)
	require.Equal(t, 1, spawned)
}
