package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"signalboard/internal/models"
	"signalboard/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Only the counter methods carry behavior; the rest satisfy the interface.
type stubRepo struct {
	counters map[string]*models.RateLimitCounter

	getErr error
	incErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{counters: map[string]*models.RateLimitCounter{}}
}

func (s *stubRepo) GetRateLimitCounter(ctx context.Context, key string) (int64, error) {
	if s.getErr != nil {
		return 0, s.getErr
	}
	if c, ok := s.counters[key]; ok {
		return c.Count, nil
	}
	return 0, nil
}

func (s *stubRepo) IncrementRateLimitCounter(ctx context.Context, key string, windowStart int64) error {
	if s.incErr != nil {
		return s.incErr
	}
	if c, ok := s.counters[key]; ok {
		c.Count++
		return nil
	}
	s.counters[key] = &models.RateLimitCounter{Key: key, Count: 1, WindowStart: windowStart}
	return nil
}

func (s *stubRepo) DeleteRateLimitCountersBefore(ctx context.Context, windowStart int64) (int64, error) {
	var n int64
	for key, c := range s.counters {
		if c.WindowStart < windowStart {
			delete(s.counters, key)
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) InsertSignal(ctx context.Context, item *models.Signal) error { return nil }
func (s *stubRepo) GetSignalByID(ctx context.Context, id string) (*models.Signal, error) {
	return nil, nil
}
func (s *stubRepo) LatestSignal(ctx context.Context, platform string) (*models.Signal, error) {
	return nil, nil
}
func (s *stubRepo) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	return nil, nil
}
func (s *stubRepo) ListPlatforms(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubRepo) SignalStats(ctx context.Context, platform string) (repository.SignalStats, error) {
	return repository.SignalStats{}, nil
}
func (s *stubRepo) InsertAlert(ctx context.Context, item *models.Alert) error { return nil }
func (s *stubRepo) UpdateAlertStatus(ctx context.Context, id uint64, status string, sentAt *int64) error {
	return nil
}
func (s *stubRepo) ListAlertsBySignalID(ctx context.Context, signalID string) ([]models.Alert, error) {
	return nil, nil
}
func (s *stubRepo) InsertAuditLog(ctx context.Context, item *models.AuditLog) error { return nil }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestWindowStartTruncatesToMinute(t *testing.T) {
	cases := []struct {
		nowMs int64
		want  int64
	}{
		{0, 0},
		{59_999, 0},
		{60_000, 60_000},
		{1_712_345_678_901, 1_712_345_640_000},
	}
	for _, tc := range cases {
		if got := WindowStart(tc.nowMs); got != tc.want {
			t.Fatalf("WindowStart(%d) = %d, want %d", tc.nowMs, got, tc.want)
		}
	}
}

func TestAllowCountsPerWindow(t *testing.T) {
	repo := newStubRepo()
	l := New(repo, nil)
	l.now = fixedClock(time.UnixMilli(1_700_000_000_000))

	for i := 0; i < 3; i++ {
		if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 3); err != nil {
			t.Fatalf("request %d: Allow() = %v, want nil", i+1, err)
		}
	}
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 3); err != ErrLimited {
		t.Fatalf("request 4: Allow() = %v, want ErrLimited", err)
	}
}

func TestAllowIsolatesCallersAndScopes(t *testing.T) {
	repo := newStubRepo()
	l := New(repo, nil)
	l.now = fixedClock(time.UnixMilli(1_700_000_000_000))

	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != nil {
		t.Fatalf("first caller: Allow() = %v, want nil", err)
	}
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != ErrLimited {
		t.Fatalf("first caller again: Allow() = %v, want ErrLimited", err)
	}
	if err := l.Allow(context.Background(), "ingest", "5.6.7.8", 1); err != nil {
		t.Fatalf("second caller: Allow() = %v, want nil", err)
	}
	if err := l.Allow(context.Background(), "query", "1.2.3.4", 1); err != nil {
		t.Fatalf("other scope: Allow() = %v, want nil", err)
	}
}

func TestAllowResetsOnNewWindow(t *testing.T) {
	repo := newStubRepo()
	l := New(repo, nil)

	base := time.UnixMilli(1_700_000_000_000)
	l.now = fixedClock(base)
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != nil {
		t.Fatalf("window 1: Allow() = %v, want nil", err)
	}
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != ErrLimited {
		t.Fatalf("window 1 again: Allow() = %v, want ErrLimited", err)
	}

	l.now = fixedClock(base.Add(time.Minute))
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != nil {
		t.Fatalf("window 2: Allow() = %v, want nil", err)
	}
}

func TestAllowFailsOpenOnStoreErrors(t *testing.T) {
	repo := newStubRepo()
	l := New(repo, nil)
	l.now = fixedClock(time.UnixMilli(1_700_000_000_000))

	repo.getErr = errors.New("db down")
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != nil {
		t.Fatalf("read error: Allow() = %v, want nil", err)
	}

	repo.getErr = nil
	repo.incErr = errors.New("db down")
	if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 1); err != nil {
		t.Fatalf("increment error: Allow() = %v, want nil", err)
	}
}

func TestAllowZeroLimitDisablesCheck(t *testing.T) {
	repo := newStubRepo()
	l := New(repo, nil)
	l.now = fixedClock(time.UnixMilli(1_700_000_000_000))

	for i := 0; i < 10; i++ {
		if err := l.Allow(context.Background(), "ingest", "1.2.3.4", 0); err != nil {
			t.Fatalf("Allow() = %v, want nil", err)
		}
	}
	if len(repo.counters) != 0 {
		t.Fatalf("counters written = %d, want 0", len(repo.counters))
	}
}

func TestPruneDeletesOnlyExpiredWindows(t *testing.T) {
	repo := newStubRepo()
	l := New(repo, nil)

	base := time.UnixMilli(1_700_000_000_000)
	old := WindowStart(base.Add(-2 * time.Hour).UnixMilli())
	fresh := WindowStart(base.UnixMilli())
	repo.counters[Key("ingest", "1.2.3.4", old)] = &models.RateLimitCounter{Key: "a", Count: 5, WindowStart: old}
	repo.counters[Key("ingest", "1.2.3.4", fresh)] = &models.RateLimitCounter{Key: "b", Count: 1, WindowStart: fresh}

	l.now = fixedClock(base)
	n, err := l.Prune(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Prune() = %d rows, want 1", n)
	}
	if len(repo.counters) != 1 {
		t.Fatalf("counters left = %d, want 1", len(repo.counters))
	}
}
