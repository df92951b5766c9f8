package rate

import (
	"context"
	"sync"
	"time"
)

// pollInterval is how often Wait re-checks an empty bucket.
const pollInterval = 25 * time.Millisecond

// Config defines client-side rate limiting for requests against a Secret Server tenant.
type Config struct {
	RequestsPerSecond int
	Burst             int
}

// Enabled reports whether the config describes an active limit.
func (c Config) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// Limiter implements a token bucket rate limiter.
type Limiter struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64
	burst  float64
}

// New creates a new limiter. A burst below one is raised to one so the
// bucket can ever drain.
func New(cfg Config) *Limiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		tokens: float64(burst),
		last:   time.Now(),
		rate:   float64(cfg.RequestsPerSecond),
		burst:  float64(burst),
	}
}

// Allow takes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	l.last = now
	if l.tokens > l.burst {
		l.tokens = l.burst
	}

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Wait blocks until a token becomes available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.Allow() {
		return nil
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if l.Allow() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Manager holds one limiter per key (the Secret Server username), so
// clients sharing a process do not starve each other.
type Manager struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	defaults Config
}

// NewManager returns a Manager that creates limiters from defaults.
func NewManager(defaults Config) *Manager {
	return &Manager{
		limiters: make(map[string]*Limiter),
		defaults: defaults,
	}
}

// Limiter returns the limiter for key, creating it on first use.
func (m *Manager) Limiter(key string) *Limiter {
	m.mu.RLock()
	lim, ok := m.limiters[key]
	m.mu.RUnlock()
	if ok {
		return lim
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if lim, ok := m.limiters[key]; ok {
		return lim
	}
	lim = New(m.defaults)
	m.limiters[key] = lim
	return lim
}

// Wait blocks until key may issue another request.
func (m *Manager) Wait(ctx context.Context, key string) error {
	return m.Limiter(key).Wait(ctx)
}
