package jobs

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sevigo/review-pilot/internal/core"
)

type countingJob struct {
	mu   sync.Mutex
	seen []int
	done chan struct{}
}

func (j *countingJob) Run(_ context.Context, event *core.ReviewEvent) error {
	j.mu.Lock()
	j.seen = append(j.seen, event.PRNumber)
	j.mu.Unlock()
	j.done <- struct{}{}
	return nil
}

func TestDispatcher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("dispatched events reach the job", func(t *testing.T) {
		job := &countingJob{done: make(chan struct{}, 3)}
		d := NewDispatcher(job, 2, logger)

		for i := 1; i <= 3; i++ {
			if err := d.Dispatch(context.Background(), &core.ReviewEvent{PRNumber: i, RepoFullName: "acme/widgets"}); err != nil {
				t.Fatalf("Dispatch(%d) failed: %v", i, err)
			}
		}

		for i := 0; i < 3; i++ {
			select {
			case <-job.done:
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for jobs to run")
			}
		}
		d.Stop()

		job.mu.Lock()
		defer job.mu.Unlock()
		if len(job.seen) != 3 {
			t.Errorf("expected 3 processed events, got %d", len(job.seen))
		}
	})

	t.Run("stop drains workers", func(t *testing.T) {
		job := &countingJob{done: make(chan struct{}, 1)}
		d := NewDispatcher(job, 0, logger) // 0 defaults to one worker

		if err := d.Dispatch(context.Background(), &core.ReviewEvent{PRNumber: 1}); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		<-job.done
		d.Stop() // must not hang or panic
	})
}
