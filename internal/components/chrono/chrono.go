package chrono

import (
	"context"
	"sync"
	"time"
)

type API interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FakeImpl never blocks, it advances its own clock by the slept duration and
// remembers every call.
type FakeImpl struct {
	lock   sync.Mutex
	now    time.Time
	Sleeps []time.Duration
}

func NewFakeImpl(start time.Time) *FakeImpl {
	return &FakeImpl{now: start}
}

func (f *FakeImpl) Now() time.Time {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.now
}

func (f *FakeImpl) Sleep(ctx context.Context, d time.Duration) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Sleeps = append(f.Sleeps, d)
	f.now = f.now.Add(d)
	return ctx.Err()
}
