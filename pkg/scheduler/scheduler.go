// Package scheduler runs submitted work on a fixed-size worker pool.
// Within one collection cycle each tool invocation is its own unit of
// work, so slow tools overlap instead of running back to back.
package scheduler

import (
	"context"
)

type workRequest struct {
	fn  Work[any]
	c   chan Result[any]
	ctx context.Context
}

type worker struct {
	done chan any
}

func (w worker) Work(r workRequest) {
	v, err := r.fn(r.ctx)
	r.c <- Result[any]{Data: v, Err: err}
	w.done <- struct{}{}
}

func newWorker(done chan any) worker {
	return worker{done: done}
}

type Scheduler struct {
	workers    *Queue[worker]
	workQueue  *Queue[workRequest]
	close      chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
}

func NewScheduler(nbWorkers int) *Scheduler {
	done := make(chan any)
	wq := &Queue[worker]{}
	for range nbWorkers {
		wq.Push(newWorker(done))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		workers:    wq,
		workQueue:  &Queue[workRequest]{},
		close:      make(chan any),
		done:       done,
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// AddWork queues fn for execution and returns a future resolving with
// its result. The work's context is cancelled when the scheduler closes
// or the future is stopped.
func (s *Scheduler) AddWork(fn Work[any]) *Future[Result[any]] {
	c := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)
	s.work <- workRequest{fn, c, ctx}
	return NewFuture(c, cancel)
}

func (s *Scheduler) Close() {
	s.mainCancel()
	s.close <- struct{}{}
}

func (s *Scheduler) run() {
	for {
		select {
		case w := <-s.work:
			s.workQueue.Push(w)
			if s.workers.Len() == 0 {
				continue
			}
			s.dispatch(s.workQueue.Pop())
		case <-s.done:
			s.workers.Push(newWorker(s.done))

			if s.workQueue.Len() == 0 {
				continue
			}
			s.dispatch(s.workQueue.Pop())
		case <-s.close:
			return
		}
	}
}

func (s *Scheduler) dispatch(r workRequest) {
	worker := s.workers.Pop()
	go worker.Work(r)
}
