package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePriorityOrder(t *testing.T) {
	q := NewInMemoryQueue(10)
	defer q.Close()

	require.NoError(t, q.Push(NewTask("https://shop.example/low", 0)))
	require.NoError(t, q.Push(NewTask("https://shop.example/high", 10)))
	require.NoError(t, q.Push(NewTask("https://shop.example/mid", 5)))

	ctx := context.Background()

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/high", first.URL)

	second, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/mid", second.URL)

	third, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/low", third.URL)
}

func TestQueueSamePriorityKeepsArrivalOrder(t *testing.T) {
	q := NewInMemoryQueue(10)
	defer q.Close()

	require.NoError(t, q.Push(NewTask("https://shop.example/a", 1)))
	require.NoError(t, q.Push(NewTask("https://shop.example/b", 1)))

	first, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/a", first.URL)
}

func TestQueueBounded(t *testing.T) {
	q := NewInMemoryQueue(1)
	defer q.Close()

	require.NoError(t, q.Push(NewTask("https://shop.example/1", 0)))
	assert.ErrorIs(t, q.Push(NewTask("https://shop.example/2", 0)), ErrQueueFull)
}

func TestQueuePopRespectsContext(t *testing.T) {
	q := NewInMemoryQueue(10)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueRepeatedCancelWhileBlocked(t *testing.T) {
	q := NewInMemoryQueue(10)
	defer q.Close()

	// Cancel while Pop is parked on the condition variable, many times in
	// a row. A broken cancel path unlocks an unheld mutex and aborts the
	// whole process rather than failing an assertion.
	for i := 0; i < 100; i++ {
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			_, err := q.Pop(ctx)
			errCh <- err
		}()

		time.Sleep(time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Pop did not return after cancellation")
		}
	}

	// The queue must still work afterwards.
	require.NoError(t, q.Push(NewTask("https://shop.example/after", 0)))
	task, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/after", task.URL)
}

func TestQueueConcurrentPopsSurviveCancellation(t *testing.T) {
	q := NewInMemoryQueue(100)
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())

	const waiters = 8
	errCh := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			_, err := q.Pop(ctx)
			errCh <- err
		}()
	}

	time.Sleep(5 * time.Millisecond)
	cancel()

	for i := 0; i < waiters; i++ {
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("a blocked Pop did not return after cancellation")
		}
	}
}

func TestQueueCloseUnblocksPop(t *testing.T) {
	q := NewInMemoryQueue(10)

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Pop(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Close")
	}

	assert.ErrorIs(t, q.Push(NewTask("https://shop.example/late", 0)), ErrQueueClosed)
}
