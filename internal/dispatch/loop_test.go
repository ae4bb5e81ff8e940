package dispatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(ctx, 0)
	go loop.Run()
	t.Cleanup(cancel)
	return loop, cancel
}

func TestLoop_PostRunsInOrder(t *testing.T) {
	loop, _ := startLoop(t)

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.True(t, loop.Post(func() { order = append(order, i) }))
	}
	require.True(t, loop.Do(func() {}))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestLoop_GoPostsCompletionOnLoop(t *testing.T) {
	loop, _ := startLoop(t)

	var result int
	var completions int32
	loop.Go(func(ctx context.Context) {
		result = 42
	}, func() {
		atomic.AddInt32(&completions, 1)
	})
	loop.Wait()

	var seen int
	require.True(t, loop.Do(func() { seen = result }))
	assert.Equal(t, 42, seen)
	assert.Equal(t, int32(1), atomic.LoadInt32(&completions))
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	loop, _ := startLoop(t)

	loop.Post(func() { panic("boom") })

	ran := false
	require.True(t, loop.Do(func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_StopsOnCancel(t *testing.T) {
	loop, cancel := startLoop(t)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.False(t, loop.Do(func() {}))
}

func TestInline_RunsSynchronously(t *testing.T) {
	var steps []string
	Inline{}.Go(func(ctx context.Context) {
		require.NotNil(t, ctx)
		steps = append(steps, "work")
	}, func() {
		steps = append(steps, "done")
	})

	assert.Equal(t, []string{"work", "done"}, steps)
}

func TestLoop_IdleWaitsForChainedCompletions(t *testing.T) {
	loop, _ := startLoop(t)

	var steps []string
	require.True(t, loop.Do(func() {
		loop.Go(func(ctx context.Context) {}, func() {
			steps = append(steps, "first")
			loop.Go(func(ctx context.Context) {
				time.Sleep(10 * time.Millisecond)
			}, func() {
				steps = append(steps, "second")
			})
		})
	}))

	require.True(t, loop.Idle())
	var seen []string
	require.True(t, loop.Do(func() { seen = append(seen, steps...) }))
	assert.Equal(t, []string{"first", "second"}, seen)
}
