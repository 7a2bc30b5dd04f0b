package cotick_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cotick/cotick"
)

// countdown resolves on its n-th poll, carrying payload.
func countdown(n int, payload any) cotick.Awaiter {
	left := n
	return cotick.AwaiterFunc(func(cotick.Context) cotick.Result {
		left--
		if left <= 0 {
			return cotick.Result{Done: true, Data: payload}
		}
		return cotick.Result{}
	})
}

func TestOneLowestIndexWinsTies(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var winner any
	s.Go("race", func(co *cotick.Coro) {
		winner = co.Yield(cotick.One(
			countdown(2, "a"),
			countdown(2, "b"),
			countdown(3, "c"),
		))
	})

	drive(s, 1)
	require.Nil(t, winner)
	drive(s, 1)
	require.Equal(t, 0, winner, "children 0 and 1 resolve together; index 0 wins")
}

func TestAllCollectsPayloads(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var all any
	s.Go("gather", func(co *cotick.Coro) {
		all = co.Yield(cotick.All(
			countdown(3, "three"),
			countdown(5, "five"),
		))
	})

	drive(s, 4)
	require.Nil(t, all, "must not resolve before the slowest child")
	drive(s, 1)
	require.Equal(t, []any{"three", "five"}, all)
}

func TestOneKeepsTieWithNestedTask(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var winner any
	s.Go("race", func(co *cotick.Coro) {
		winner = co.Yield(cotick.One(
			cotick.Ticks(5),
			func(co *cotick.Coro) {
				co.Yield(cotick.Ticks(2))
			},
		))
	})

	drive(s, 2)
	require.Equal(t, 1, winner, "the nested task completes first")
}

func TestResolvedChildNeverUnresolves(t *testing.T) {
	polls := 0
	flaky := cotick.AwaiterFunc(func(cotick.Context) cotick.Result {
		polls++
		return cotick.Result{Done: true, Data: polls}
	})

	nest := cotick.Nest(func(_ cotick.Context, results []*cotick.Result) cotick.Result {
		if results[1] == nil {
			return cotick.Result{}
		}
		return cotick.Result{Done: true, Data: results[0].Data}
	}, flaky, countdown(3, nil))

	var res cotick.Result
	for i := 0; i < 3; i++ {
		res = nest.Poll(nil)
	}
	require.True(t, res.Done)
	require.Equal(t, 1, polls, "a done child is not polled again")
	require.Equal(t, 1, res.Data, "the first result sticks")
}

func TestDisposingParentDisposesNestedTask(t *testing.T) {
	reg := cotick.NewMemoryRegistry()
	s := cotick.NewScheduler(reg)

	subDisposed := false
	parent := s.Go("parent", func(co *cotick.Coro) {
		co.Yield(cotick.One(
			cotick.Ticks(100),
			func(co *cotick.Coro) {
				co.OnDispose(func() { subDisposed = true })
				co.Yield(cotick.Never())
			},
		))
	})

	drive(s, 3)
	require.False(t, subDisposed)

	parent.Dispose()
	require.True(t, subDisposed, "no leaked sub-task registration")
	require.Equal(t, 0, reg.Len())
}

func TestOneDisposesLoserWhenRaceResolves(t *testing.T) {
	s := cotick.NewScheduler(nil)

	loserDisposed := false
	var winner any
	s.Go("race", func(co *cotick.Coro) {
		winner = co.Yield(cotick.One(
			cotick.Ticks(1),
			func(co *cotick.Coro) {
				co.OnDispose(func() { loserDisposed = true })
				co.Yield(cotick.Never())
			},
		))
		co.Yield(cotick.Never())
	})

	drive(s, 1)
	require.Equal(t, 0, winner)
	require.True(t, loserDisposed, "the losing sub-task unwinds when the race resolves")
}

func TestInnerCombinatorDisposesLoserBeforeParentResolves(t *testing.T) {
	s := cotick.NewScheduler(nil)

	loserDisposed := false
	done := false
	s.Go("outer", func(co *cotick.Coro) {
		co.Yield(cotick.All(
			cotick.One(
				cotick.Ticks(1),
				func(co *cotick.Coro) {
					co.OnDispose(func() { loserDisposed = true })
					co.Yield(cotick.Never())
				},
			),
			cotick.Ticks(3),
		))
		done = true
	})

	drive(s, 1)
	require.True(t, loserDisposed, "the inner race unwinds its loser as soon as it resolves")
	require.False(t, done)

	drive(s, 2)
	require.True(t, done)
}

func TestNestResolverSeesFullVector(t *testing.T) {
	s := cotick.NewScheduler(nil)

	var seen [][]bool
	s.Go("observe", func(co *cotick.Coro) {
		co.Yield(cotick.Nest(func(_ cotick.Context, results []*cotick.Result) cotick.Result {
			row := make([]bool, len(results))
			for i, r := range results {
				row[i] = r != nil
			}
			seen = append(seen, row)
			return cotick.Result{Done: row[0] && row[1]}
		},
			countdown(1, nil),
			countdown(2, nil),
		))
	})

	drive(s, 2)
	require.Equal(t, [][]bool{
		{true, false},
		{true, true},
	}, seen)
}
