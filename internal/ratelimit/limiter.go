package ratelimit

import (
	"sync"
	"time"
)

// Config contains login rate limit values.
type Config struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Window      time.Duration `yaml:"window"`
	Lockout     time.Duration `yaml:"lockout"`
}

// DefaultConfig matches what the login form can tolerate without
// annoying a legitimate operator who fat-fingers a password.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Window:      5 * time.Minute,
		Lockout:     15 * time.Minute,
	}
}

// Counter tracks failed attempts for one key.
type counter struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
}

// Limiter throttles failed login attempts per key. Keys are chosen by
// the caller; the login handler uses client IP and email separately so
// a distributed guesser and a single noisy host are both caught.
type Limiter struct {
	config Config

	mu       sync.Mutex
	counters map[string]*counter
}

// Result reports whether an attempt may proceed.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// NewLimiter creates a login attempt limiter.
func NewLimiter(cfg Config) *Limiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = DefaultConfig().Lockout
	}
	return &Limiter{
		config:   cfg,
		counters: make(map[string]*counter),
	}
}

// Allow checks whether a login attempt for the given keys may proceed.
// It does not record anything; call RecordFailure or Reset afterwards.
func (l *Limiter) Allow(keys ...string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for _, key := range keys {
		c, exists := l.counters[key]
		if !exists {
			continue
		}
		l.expire(c, now)
		if now.Before(c.lockedUntil) {
			return Result{Allowed: false, RetryAfter: c.lockedUntil.Sub(now)}
		}
	}
	return Result{Allowed: true}
}

// RecordFailure notes a failed attempt against each key. When a key
// reaches the attempt limit inside the window it is locked out.
func (l *Limiter) RecordFailure(keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for _, key := range keys {
		c, exists := l.counters[key]
		if !exists {
			c = &counter{windowStart: now}
			l.counters[key] = c
		}
		l.expire(c, now)
		c.failures++
		if c.failures >= l.config.MaxAttempts {
			c.lockedUntil = now.Add(l.config.Lockout)
		}
	}
}

// Reset clears the counters after a successful login.
func (l *Limiter) Reset(keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		delete(l.counters, key)
	}
}

func (l *Limiter) expire(c *counter, now time.Time) {
	if now.Sub(c.windowStart) >= l.config.Window && now.After(c.lockedUntil) {
		c.failures = 0
		c.windowStart = now
		c.lockedUntil = time.Time{}
	}
}
