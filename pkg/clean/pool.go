package clean

import (
	"context"

	"github.com/yarenty/cleaner/pkg/worker"
)

func workerPool(config Config) (worker.Pool, error) {
	return worker.NewPool(worker.Config{
		Workers:   config.Workers,
		RateLimit: config.RateLimit,
	})
}

func poolTask(id int, fn func(context.Context) error) worker.Task {
	return worker.Task{ID: id, Execute: fn}
}
