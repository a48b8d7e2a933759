package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store counts hits per key within a TTL.
type Store interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Policy is a fixed-window limit for one traffic surface.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

func (p Policy) key(subject string) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if name == "" {
		name = "default"
	}
	return fmt.Sprintf("rl:%s:%s", name, subject)
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	Count   int64
	Limit   int
}

// Limiter applies one Policy against a shared Store.
type Limiter struct {
	policy Policy
	store  Store
}

// New returns a limiter enforcing policy with counts kept in store.
func New(policy Policy, store Store) *Limiter {
	return &Limiter{policy: policy, store: store}
}

// Policy returns the limit this limiter enforces.
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow counts a hit for subject. A disabled policy or missing store always allows.
func (l *Limiter) Allow(ctx context.Context, subject string) (Decision, error) {
	if l == nil || l.store == nil || !l.policy.Enabled() || subject == "" {
		return Decision{Allowed: true}, nil
	}

	count, err := l.store.IncrWithTTL(ctx, l.policy.key(subject), l.policy.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", l.policy.Name, err)
	}
	return Decision{
		Allowed: count <= int64(l.policy.Limit),
		Count:   count,
		Limit:   l.policy.Limit,
	}, nil
}
