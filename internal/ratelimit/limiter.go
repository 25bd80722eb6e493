// Package ratelimit admits or rejects requests against fixed one-minute
// windows persisted in the store, so limits hold across process restarts
// and multiple replicas sharing one database.
package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"signalboard/internal/repository"
)

// ErrLimited is returned by Allow when the caller exhausted the window.
var ErrLimited = errors.New("ratelimit: limited")

const windowMillis = 60_000

type Limiter struct {
	repo   repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

func New(repo repository.Repository, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{repo: repo, logger: logger, now: time.Now}
}

// WindowStart truncates an epoch-millisecond instant to its minute window.
func WindowStart(nowMs int64) int64 {
	return nowMs / windowMillis * windowMillis
}

// Key builds the counter row key for one caller in one window.
func Key(scope, ip string, windowStart int64) string {
	return scope + ":" + ip + ":" + strconv.FormatInt(windowStart, 10)
}

// Allow admits the request unless the caller already used up `limit` slots
// in the current window. Store failures on either the read or the increment
// admit the request: losing precision is preferred to refusing traffic when
// the database blips. limit <= 0 disables the check.
func (l *Limiter) Allow(ctx context.Context, scope, ip string, limit int64) error {
	if l == nil || l.repo == nil || limit <= 0 {
		return nil
	}
	if ip == "" {
		ip = "unknown"
	}

	windowStart := WindowStart(l.now().UnixMilli())
	key := Key(scope, ip, windowStart)

	count, err := l.repo.GetRateLimitCounter(ctx, key)
	if err != nil {
		l.logger.Warn("rate counter read failed, admitting request",
			zap.String("key", key),
			zap.Error(err))
		return nil
	}
	if count >= limit {
		return ErrLimited
	}
	if err := l.repo.IncrementRateLimitCounter(ctx, key, windowStart); err != nil {
		l.logger.Warn("rate counter increment failed, admitting request",
			zap.String("key", key),
			zap.Error(err))
	}
	return nil
}

// Prune deletes counters whose window started more than retention ago and
// returns the number of rows removed.
func (l *Limiter) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if l == nil || l.repo == nil {
		return 0, nil
	}
	cutoff := l.now().Add(-retention).UnixMilli()
	return l.repo.DeleteRateLimitCountersBefore(ctx, cutoff)
}
