// Package jobs runs periodic maintenance tasks in-process.
package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"brokerage/internal/logger"

	"go.uber.org/zap"
)

// DefaultTick is how often the scheduler checks for due jobs.
const DefaultTick = time.Minute

// Job is a named task repeated every Interval. A zero NextRun is set to one
// Interval after scheduling.
type Job struct {
	Name     string
	Interval time.Duration
	NextRun  time.Time
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	jobs   map[string]*Job
	mu     sync.Mutex
	tick   time.Duration
	logger *zap.Logger
	now    func() time.Time
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewScheduler(tick time.Duration, log *zap.Logger) *Scheduler {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Scheduler{
		jobs:   make(map[string]*Job),
		tick:   tick,
		logger: logger.OrNop(log).Named("scheduler"),
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Schedule adds or replaces the job with the same name.
func (s *Scheduler) Schedule(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.NextRun.IsZero() {
		job.NextRun = s.now().Add(job.Interval)
	}
	s.jobs[job.Name] = job
	s.logger.Info("scheduled job",
		zap.String("job", job.Name),
		zap.Duration("interval", job.Interval),
		zap.Time("next_run", job.NextRun))
}

// Start runs due jobs on every tick until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunDue(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("scheduler started", zap.Duration("tick", s.tick))
}

// Stop halts the loop and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	s.logger.Info("scheduler stopped")
}

// RunDue runs every job whose NextRun has passed, in name order, and returns
// the names that ran. Jobs run outside the lock.
func (s *Scheduler) RunDue(ctx context.Context) []string {
	now := s.now()

	s.mu.Lock()
	var due []*Job
	for _, job := range s.jobs {
		if !now.Before(job.NextRun) {
			due = append(due, job)
			job.NextRun = now.Add(job.Interval)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].Name < due[j].Name })
	names := make([]string, 0, len(due))
	for _, job := range due {
		if ctx.Err() != nil {
			break
		}
		started := s.now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("job failed", zap.String("job", job.Name), zap.Error(err))
		} else {
			s.logger.Info("job finished", zap.String("job", job.Name), zap.Duration("took", s.now().Sub(started)))
		}
		names = append(names, job.Name)
	}
	return names
}

// NextDaily returns the next time after now at hour:00 in now's location.
func NextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
