package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage/internal/repositories"
	"brokerage/internal/services/kyc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler(c *clock) *Scheduler {
	s := NewScheduler(time.Hour, nil)
	s.now = c.Now
	return s
}

func TestScheduler_RunDue(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := newTestScheduler(c)

	var runs []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			runs = append(runs, name)
			return nil
		}
	}
	s.Schedule(&Job{Name: "hourly", Interval: time.Hour, Run: record("hourly")})
	s.Schedule(&Job{Name: "daily", Interval: 24 * time.Hour, Run: record("daily")})

	assert.Empty(t, s.RunDue(context.Background()))

	c.Advance(time.Hour)
	assert.Equal(t, []string{"hourly"}, s.RunDue(context.Background()))
	assert.Empty(t, s.RunDue(context.Background()), "next run moved forward")

	c.Advance(23 * time.Hour)
	assert.Equal(t, []string{"daily", "hourly"}, s.RunDue(context.Background()))
	assert.Equal(t, []string{"hourly", "daily", "hourly"}, runs)
}

func TestScheduler_FailingJobIsRescheduled(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := newTestScheduler(c)

	calls := 0
	s.Schedule(&Job{Name: "flaky", Interval: time.Minute, NextRun: c.t, Run: func(context.Context) error {
		calls++
		return errors.New("boom")
	}})

	s.RunDue(context.Background())
	c.Advance(time.Minute)
	s.RunDue(context.Background())
	assert.Equal(t, 2, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(10*time.Millisecond, nil)
	ran := make(chan struct{}, 1)
	s.Schedule(&Job{Name: "now", Interval: time.Hour, NextRun: time.Now(), Run: func(context.Context) error {
		ran <- struct{}{}
		return nil
	}})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	s.Stop()
	s.Stop()
}

func TestNextDaily(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC), NextDaily(now, 2))
	assert.Equal(t, time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), NextDaily(now, 23))
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), NextDaily(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), 10))
}

type MockMaintainer struct {
	mock.Mock
}

func (m *MockMaintainer) Sweep(ctx context.Context) (*kyc.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kyc.SweepResult), args.Error(1)
}

func (m *MockMaintainer) RetryScoring(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMaintainer) Stats(ctx context.Context) (*repositories.DocumentStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.DocumentStats), args.Error(1)
}

func TestKYCJobs(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := new(MockMaintainer)
	svc.On("Sweep", mock.Anything).Return(&kyc.SweepResult{Scanned: 3, Deleted: 2, Failed: 1}, nil).Once()
	svc.On("RetryScoring", mock.Anything).Return(1, nil).Once()
	svc.On("Stats", mock.Anything).Return(&repositories.DocumentStats{Total: 4}, nil).Once()

	jobs := KYCJobs(svc, 2, now, nil)
	require.Len(t, jobs, 3)

	byName := make(map[string]*Job)
	for _, j := range jobs {
		byName[j.Name] = j
	}
	assert.Equal(t, time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC), byName[SweepJob].NextRun)
	assert.Equal(t, time.Hour, byName[RetryJob].Interval)
	assert.Equal(t, 7*24*time.Hour, byName[StatsReportJob].Interval)

	for _, j := range jobs {
		assert.NoError(t, j.Run(context.Background()), j.Name)
	}
	svc.AssertExpectations(t)
}

func TestKYCJobs_PropagatesErrors(t *testing.T) {
	svc := new(MockMaintainer)
	svc.On("Sweep", mock.Anything).Return(nil, context.Canceled)

	jobs := KYCJobs(svc, 2, time.Now(), nil)
	assert.ErrorIs(t, jobs[0].Run(context.Background()), context.Canceled)
}
