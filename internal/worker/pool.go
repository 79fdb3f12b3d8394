// Package worker bounds how many CPU-heavy jobs (bcrypt, token signing) run
// at once so they cannot starve request intake.
package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New returns a pool running at most size jobs concurrently. A size of zero
// or less means runtime.NumCPU().
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *Pool) Size() int { return p.size }

// Do runs fn on a pool goroutine and waits for it. If ctx ends first Do
// returns ctx.Err(); the job still completes in the background and releases
// its slot.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	_, err := Run(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

type outcome[T any] struct {
	value T
	err   error
}

// Run is Do for jobs that produce a value. A nil pool runs fn inline.
func Run[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	if p == nil {
		return fn()
	}
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	done := make(chan outcome[T], 1)
	go func() {
		defer p.sem.Release(1)
		value, err := fn()
		done <- outcome[T]{value: value, err: err}
	}()
	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
