package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed. Jobs observe ctx themselves
// and return promptly once it is done.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers
type Pool struct {
	workers int
}

type indexedJob struct {
	idx int
	job Job
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the pool size
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes every job and returns results in submission order.
// Each job runs exactly once, so every job yields a result even after ctx ends.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	queue := make(chan indexedJob, p.workers*2)
	var wg sync.WaitGroup

	for i := 0; i < min(p.workers, len(jobs)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ij := range queue {
				results[ij.idx] = ij.job.Execute(ctx)
			}
		}()
	}

	for i, job := range jobs {
		queue <- indexedJob{idx: i, job: job}
	}
	close(queue)
	wg.Wait()

	return results
}

// FirstError returns the first non-nil error among results
func FirstError(results []Result) error {
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := r.GetError(); err != nil {
			return err
		}
	}
	return nil
}
