package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		tasks    func(*atomic.Int64) []Task
		validate func(*testing.T, *atomic.Int64, error)
	}{
		{
			name:    "basic task processing",
			workers: 4,
			tasks: func(counter *atomic.Int64) []Task {
				tasks := make([]Task, 8)
				for i := 0; i < 8; i++ {
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) error {
							counter.Add(1)
							return nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, counter *atomic.Int64, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(8), counter.Load())
			},
		},
		{
			name:    "failed tasks reported without stopping the pool",
			workers: 2,
			tasks: func(counter *atomic.Int64) []Task {
				return []Task{
					{ID: 0, Execute: func(ctx context.Context) error {
						return errors.New("planned error")
					}},
					{ID: 1, Execute: func(ctx context.Context) error {
						counter.Add(1)
						return nil
					}},
				}
			},
			validate: func(t *testing.T, counter *atomic.Int64, err error) {
				assert.Error(t, err)
				assert.Equal(t, int64(1), counter.Load())
			},
		},
		{
			name:    "single worker runs everything",
			workers: 1,
			tasks: func(counter *atomic.Int64) []Task {
				tasks := make([]Task, 5)
				for i := 0; i < 5; i++ {
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) error {
							counter.Add(1)
							return nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, counter *atomic.Int64, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(5), counter.Load())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(Config{Workers: tt.workers})
			require.NoError(t, err)

			require.NoError(t, pool.Start(context.Background()))

			var counter atomic.Int64
			for _, task := range tt.tasks(&counter) {
				require.NoError(t, pool.Submit(task))
			}

			err = pool.Wait()
			tt.validate(t, &counter, err)
		})
	}
}

func TestWorkerPoolValidation(t *testing.T) {
	_, err := NewPool(Config{Workers: 0})
	assert.Error(t, err)

	_, err = NewPool(Config{Workers: 2, RateLimit: -1})
	assert.Error(t, err)
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	pool, err := NewPool(Config{Workers: 1})
	require.NoError(t, err)

	err = pool.Submit(Task{ID: 1, Execute: func(ctx context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestWorkerPoolCancellation(t *testing.T) {
	pool, err := NewPool(Config{Workers: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, pool.Start(ctx))

	started := make(chan struct{})
	var completed atomic.Int64

	require.NoError(t, pool.Submit(Task{
		ID: 0,
		Execute: func(ctx context.Context) error {
			close(started)
			// In-flight work is allowed to finish after cancellation.
			time.Sleep(20 * time.Millisecond)
			completed.Add(1)
			return nil
		},
	}))

	<-started
	cancel()

	// New tasks are rejected once the context is cancelled.
	err = pool.Submit(Task{ID: 1, Execute: func(ctx context.Context) error { return nil }})
	assert.Error(t, err)

	pool.Wait()
	assert.Equal(t, int64(1), completed.Load())
}

func TestWorkerPoolRateLimit(t *testing.T) {
	pool, err := NewPool(Config{Workers: 4, RateLimit: 50})
	require.NoError(t, err)

	require.NoError(t, pool.Start(context.Background()))

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(Task{
			ID:      i,
			Execute: func(ctx context.Context) error { return nil },
		}))
	}
	require.NoError(t, pool.Wait())

	// 5 tasks at 50/s need at least ~80ms after the initial burst.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}
