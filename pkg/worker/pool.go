package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var (
	ErrPoolClosed = errors.New("pool is closed")
)

// Job is a unit of work run by the pool. A returned error is collected and
// reported by Wait.
type Job func(ctx context.Context) error

// WorkerPool runs jobs on at most limit goroutines at a time
type WorkerPool struct {
	limit   int
	tickets chan int
	num     atomic.Int32

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool creates a new worker pool with the given limit
func NewWorkerPool(limit int) *WorkerPool {
	if limit <= 0 {
		limit = 10
	}

	wp := &WorkerPool{
		limit:   limit,
		tickets: make(chan int, limit),
	}

	for i := 0; i < limit; i++ {
		wp.tickets <- i
	}

	return wp
}

// Do blocks until a worker is free, then runs job on it.
// It returns the ticket of the worker, or ctx.Err() if ctx ends first.
func (wp *WorkerPool) Do(ctx context.Context, job Job) (ticket int, err error) {
	select {
	case <-ctx.Done():
		return -1, ctx.Err()
	case t, ok := <-wp.tickets:
		if !ok {
			return -1, ErrPoolClosed
		}
		ticket = t
	}

	wp.num.Add(1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Int("ticket", ticket).Interface("panic", r).Msg("worker job panicked")
				wp.collect(fmt.Errorf("worker %d: panic: %v", ticket, r))
			}
			wp.num.Add(-1)
			wp.tickets <- ticket
		}()

		if job != nil {
			wp.collect(job(ctx))
		}
	}()

	return ticket, nil
}

func (wp *WorkerPool) collect(err error) {
	if err == nil {
		return
	}
	wp.mu.Lock()
	wp.errs = append(wp.errs, err)
	wp.mu.Unlock()
}

// Wait waits for all workers to finish and closes the pool.
// The returned error joins every error returned by the jobs.
func (wp *WorkerPool) Wait() error {
	for i := 0; i < wp.limit; i++ {
		<-wp.tickets
	}
	close(wp.tickets)

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return errors.Join(wp.errs...)
}

// Num returns the number in progress of workers in the pool
func (wp *WorkerPool) Num() int {
	return int(wp.num.Load())
}

// Limit returns the maximum number of concurrent workers
func (wp *WorkerPool) Limit() int {
	return wp.limit
}
