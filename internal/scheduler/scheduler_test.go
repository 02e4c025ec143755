package scheduler

import (
	"io"
	"log"
	"testing"
	"time"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(nil, log.New(io.Discard, "", 0))
}

func TestSchedulerRejectsInvalidCron(t *testing.T) {
	s := newTestScheduler()
	if err := s.SchedulePredictionRuns("not a cron", nil); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestSchedulerStartRequiresJobs(t *testing.T) {
	s := newTestScheduler()
	if err := s.Start(); err == nil {
		t.Fatal("expected error starting with no jobs")
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	s := newTestScheduler()
	if err := s.SchedulePredictionRuns("0 7 * * *", nil); err != nil {
		t.Fatalf("scheduling failed: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should be running after start")
	}

	if err := s.SchedulePredictionRuns("0 8 * * *", nil); err == nil {
		t.Error("expected error scheduling while running")
	}

	next := s.GetNextRun()
	if next.IsZero() || !next.After(time.Now().Add(-time.Minute)) {
		t.Errorf("unexpected next run time %v", next)
	}
	if len(s.Entries()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Entries()))
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should not be running after stop")
	}
}
