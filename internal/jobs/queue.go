// Package jobs provides the asynchronous execution substrate: a bounded
// in-process worker pool for notification/export jobs and a cron-backed
// scheduler for recurring sweeps.
//
// Jobs carry no ordering guarantee relative to each other. A job either
// completes or is logged as failed; failures are terminal to that job
// only and never reach the request that enqueued it.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Job is a named unit of asynchronous work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue is a bounded worker pool.
type Queue struct {
	jobs    chan Job
	workers int
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the given worker count and buffer size.
func NewQueue(workers, size int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	return &Queue{
		jobs:    make(chan Job, size),
		workers: workers,
		timeout: 30 * time.Second,
	}
}

// Start launches the workers.
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	log.Printf("Job queue started with %d workers", q.workers)
}

// Enqueue submits a job and returns immediately. It reports false when
// the queue is full or already stopped; the caller treats that as a
// failed job, not a failed request.
func (q *Queue) Enqueue(name string, run func(ctx context.Context) error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		log.Printf("[ERROR] job %s rejected: queue stopped", name)
		return false
	}

	select {
	case q.jobs <- Job{Name: name, Run: run}:
		return true
	default:
		log.Printf("[ERROR] job %s rejected: queue full", name)
		return false
	}
}

// Stop drains the queue and waits for in-flight jobs to finish.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	log.Println("Job queue stopped")
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		q.execute(job)
	}
}

func (q *Queue) execute(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	start := time.Now()
	if err := runSafely(ctx, job); err != nil {
		log.Printf("[ERROR] job %s failed after %v: %v", job.Name, time.Since(start), err)
		return
	}
	log.Printf("[INFO] job %s completed in %v", job.Name, time.Since(start))
}

// runSafely converts a panic inside a job into an error so one bad job
// cannot take the worker down.
func runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Run(ctx)
}
