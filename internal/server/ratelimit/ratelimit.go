// Package ratelimit throttles API clients per route with token buckets from
// golang.org/x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the limit state after a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	limit      int
	lastAccess time.Time
}

// Limiter keeps one bucket per client and route.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

// NewLimiter creates a limiter and starts its idle-bucket sweeper.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{Enabled: true, DefaultLimit: 600, DefaultWindow: time.Minute}
	}
	if config.IdleTTL == 0 {
		config.IdleTTL = time.Hour
	}
	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweep(config.CleanupInterval)
	}
	return l
}

// Allow consumes one token for clientID on the route and reports whether the
// request may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ec := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{Path: path, Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if ec.Limit <= 0 || ec.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucket(clientID+":"+method+":"+ec.Path, ec, now)

	info := Info{Limit: b.limit}
	if b.limiter.AllowN(now, 1) {
		info.Allowed = true
	} else {
		r := b.limiter.ReserveN(now, 1)
		info.RetryAfter = r.DelayFrom(now)
		r.CancelAt(now)
	}

	tokens := b.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	info.Remaining = int(tokens)
	missing := float64(b.limiter.Burst()) - tokens
	info.ResetTime = now.Add(time.Duration(missing / float64(b.limiter.Limit()) * float64(time.Second)))
	return info.Allowed, info
}

func (l *Limiter) bucket(key string, ec *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := ec.Burst
		if burst <= 0 {
			burst = ec.Limit
		}
		every := rate.Limit(float64(ec.Limit) / ec.Window.Seconds())
		b = &bucket{limiter: rate.NewLimiter(every, burst), limit: ec.Limit}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets unused for longer than IdleTTL.
func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-l.config.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
