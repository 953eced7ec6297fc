package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/review-pilot/internal/core"
)

// queueCapacity bounds how many events may wait for a worker before
// Dispatch starts rejecting.
const queueCapacity = 100

// dispatcher implements core.JobDispatcher with a pool of worker goroutines
// draining a bounded queue of review events.
type dispatcher struct {
	job        core.Job
	queue      chan *core.ReviewEvent
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewDispatcher starts a worker pool of maxWorkers goroutines. A value of 0
// or less defaults to 1.
func NewDispatcher(job core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		job:        job,
		queue:      make(chan *core.ReviewEvent, queueCapacity),
		maxWorkers: maxWorkers,
		logger:     logger,
	}
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.work(i)
	}
	return d
}

func (d *dispatcher) work(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting review worker", "id", workerID)

	for event := range d.queue {
		d.logger.Info("worker processing review",
			"worker_id", workerID, "repo", event.RepoFullName, "pr", event.PRNumber)

		// Jobs run detached from the webhook request context: the HTTP
		// acknowledgement has long been sent by the time a worker gets here.
		if err := d.job.Run(context.Background(), event); err != nil {
			d.logger.Error("review job failed",
				"repo", event.RepoFullName, "pr", event.PRNumber, "error", err)
		}
	}

	d.logger.Info("shutting down review worker", "id", workerID)
}

// Dispatch queues an event for processing without blocking.
func (d *dispatcher) Dispatch(_ context.Context, event *core.ReviewEvent) error {
	select {
	case d.queue <- event:
		d.logger.Info("queued review job", "repo", event.RepoFullName, "pr", event.PRNumber)
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new review job")
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.queue)
	d.wg.Wait()
	d.logger.Info("all review jobs have finished")
}
