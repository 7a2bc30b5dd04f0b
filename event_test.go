package cotick_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cotick/cotick"
)

func TestEventImmediateDelivery(t *testing.T) {
	var e cotick.Event[int]

	var got []int
	e.Listen(func(v int) { got = append(got, v) })

	e.Emit(1)
	e.Emit(2)
	require.Equal(t, []int{1, 2}, got)
}

func TestEventListenerRemoval(t *testing.T) {
	var e cotick.Event[string]

	var a, b []string
	removeA := e.Listen(func(v string) { a = append(a, v) })
	e.Listen(func(v string) { b = append(b, v) })

	e.Emit("one")
	removeA()
	removeA() // removing twice is harmless
	e.Emit("two")

	require.Equal(t, []string{"one"}, a)
	require.Equal(t, []string{"one", "two"}, b)
}

func TestEventBatchedDeliversLatestOnce(t *testing.T) {
	var e cotick.Event[int]
	var b cotick.Batch

	e.DeliverBatched(&b)

	var got []int
	e.Listen(func(v int) { got = append(got, v) })

	e.Emit(1)
	e.Emit(2)
	e.Emit(3)
	require.Empty(t, got, "nothing delivered before the batch flush")

	b.Flush()
	require.Equal(t, []int{3}, got)
}

func TestEventScheduledDeliversLatestOnce(t *testing.T) {
	var e cotick.Event[int]
	var q cotick.JobQueue

	e.DeliverScheduled(&q, 5)

	var got []int
	e.Listen(func(v int) { got = append(got, v) })

	e.Emit(7)
	e.Emit(8)
	require.Empty(t, got)

	q.Flush()
	require.Equal(t, []int{8}, got)

	q.Flush()
	require.Equal(t, []int{8}, got, "delivery is one-shot per flush cycle")
}

func TestEventJobSchedulingWinsOverBatching(t *testing.T) {
	var e cotick.Event[int]
	var b cotick.Batch
	var q cotick.JobQueue

	e.DeliverBatched(&b)
	e.DeliverScheduled(&q, 1)

	var got []int
	e.Listen(func(v int) { got = append(got, v) })

	e.Emit(42)
	require.Equal(t, 0, b.Len(), "the batched registration goes unused")

	q.Flush()
	require.Equal(t, []int{42}, got)
}
