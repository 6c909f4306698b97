package scheduler

import (
	"context"
	"sync"
)

// Future resolves once the work submitted with AddWork completes. C()
// delivers the result exactly once; Poll never blocks.
type Future[T any] struct {
	input       chan T
	output      chan T
	inputClosed bool
	value       T
	cancel      context.CancelFunc
	lock        sync.Mutex
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		output: make(chan T, 1),
		cancel: cancel,
	}

	go func() {
		v := <-f.input
		f.lock.Lock()
		f.value = v
		f.inputClosed = true
		f.lock.Unlock()

		f.cancel()
		f.output <- v
	}()

	return f
}

// C returns the channel on which the result is delivered.
func (f *Future[T]) C() <-chan T {
	return f.output
}

// Poll returns the resolved value without blocking.
func (f *Future[T]) Poll() (value T, isResolved bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.inputClosed {
		return f.value, true
	}

	var none T
	return none, false
}

// Stop cancels the work's context. The future still resolves with
// whatever the cancelled work returns.
func (f *Future[T]) Stop() {
	f.cancel()
}
