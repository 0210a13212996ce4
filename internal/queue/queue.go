package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one product page URL awaiting extraction.
type Task struct {
	ID        string
	URL       string
	Priority  int
	Retries   int
	CreatedAt time.Time
}

// NewTask builds a task for a URL with a fresh identifier.
func NewTask(url string, priority int) *Task {
	return &Task{
		ID:        uuid.New().String(),
		URL:       url,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
}

type Queue interface {
	Push(task *Task) error
	Pop(ctx context.Context) (*Task, error)
	Size() int
	Close() error
}

// InMemoryQueue is a bounded priority queue. Pop blocks until a task is
// available, the context is canceled, or the queue is closed and drained.
type InMemoryQueue struct {
	tasks   []*Task
	maxSize int
	mu      sync.Mutex
	cond    *sync.Cond
	closed  bool
}

func NewInMemoryQueue(maxSize int) *InMemoryQueue {
	q := &InMemoryQueue{
		tasks:   make([]*Task, 0),
		maxSize: maxSize,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *InMemoryQueue) Push(task *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if q.maxSize > 0 && len(q.tasks) >= q.maxSize {
		return ErrQueueFull
	}

	q.tasks = append(q.tasks, task)
	q.sortByPriority()
	q.cond.Signal()

	return nil
}

func (q *InMemoryQueue) Pop(ctx context.Context) (*Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 && !q.closed {
		done := make(chan struct{})
		go func() {
			q.cond.Wait()
			close(done)
		}()

		select {
		case <-ctx.Done():
			// cond.Wait released the mutex, so the deferred unlock is
			// only safe once the helper has reacquired it. Broadcast
			// rather than Signal: a Signal could wake another Pop's
			// helper and leave ours blocked forever.
			q.cond.Broadcast()
			<-done
			return nil, ctx.Err()
		case <-done:
		}
	}

	if q.closed && len(q.tasks) == 0 {
		return nil, ErrQueueClosed
	}

	if len(q.tasks) == 0 {
		return nil, ErrQueueEmpty
	}

	task := q.tasks[0]
	q.tasks = q.tasks[1:]

	return task, nil
}

func (q *InMemoryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()

	return nil
}

// Stable insertion keeps same-priority tasks in arrival order.
func (q *InMemoryQueue) sortByPriority() {
	for i := len(q.tasks) - 1; i > 0; i-- {
		if q.tasks[i].Priority <= q.tasks[i-1].Priority {
			break
		}
		q.tasks[i], q.tasks[i-1] = q.tasks[i-1], q.tasks[i]
	}
}
