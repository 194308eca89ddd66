package cache

import (
	"context"
	"time"
)

// SubmitLocks hands out short-lived per-key locks backed by SETNX. When
// redis is bypassed every acquire succeeds, trading duplicate-submit
// protection for availability.
type SubmitLocks struct {
	r *Redis
}

func NewSubmitLocks(r *Redis) *SubmitLocks {
	return &SubmitLocks{r: r}
}

func (l *SubmitLocks) Acquire(ctx context.Context, key string, ttl time.Duration) bool {
	if l == nil || !l.r.Available() {
		return true
	}
	ok, err := l.r.SetIfNotExists(ctx, key, "1", ttl)
	if err != nil {
		return true
	}
	return ok
}

func (l *SubmitLocks) Release(ctx context.Context, key string) {
	if l == nil {
		return
	}
	_ = l.r.Delete(ctx, key)
}
