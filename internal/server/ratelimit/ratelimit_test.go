package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_AllowAndRefill(t *testing.T) {
	l, now := newTestLimiter(&Config{
		Enabled:         true,
		EndpointConfigs: []EndpointConfig{{Path: "/salary/normalize", Method: "POST", Limit: 60, Window: time.Minute, Burst: 3}},
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/salary/normalize", "POST")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if info.Limit != 60 {
			t.Errorf("Limit = %d, want 60", info.Limit)
		}
		if info.Remaining != 2-i {
			t.Errorf("Remaining = %d, want %d", info.Remaining, 2-i)
		}
	}

	allowed, info := l.Allow("1.2.3.4", "/salary/normalize", "POST")
	if allowed {
		t.Fatal("4th request should be denied")
	}
	if info.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", info.RetryAfter)
	}

	*now = now.Add(time.Second)
	if allowed, _ := l.Allow("1.2.3.4", "/salary/normalize", "POST"); !allowed {
		t.Error("request should be allowed after one token refills")
	}

	if allowed, _ := l.Allow("5.6.7.8", "/salary/normalize", "POST"); !allowed {
		t.Error("other clients have their own bucket")
	}
}

func TestLimiter_DefaultAndUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    2,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := l.Allow("c", "/health", "GET"); !allowed {
			t.Fatal("health check should be unlimited")
		}
	}

	l.Allow("c", "/salary/bands", "GET")
	l.Allow("c", "/salary/bands", "GET")
	if allowed, _ := l.Allow("c", "/salary/bands", "GET"); allowed {
		t.Error("default limit of 2 should deny the third request")
	}
}

func TestLimiter_Lists(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:      true,
		DefaultLimit: 1, DefaultWindow: time.Hour,
		Whitelist: map[string]bool{"10.0.0.1": true},
		Blacklist: map[string]bool{"10.0.0.2": true},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := l.Allow("10.0.0.1", "/jobs", "GET"); !allowed {
			t.Fatal("whitelisted client should never be limited")
		}
	}
	if allowed, _ := l.Allow("10.0.0.2", "/jobs", "GET"); allowed {
		t.Error("blacklisted client should always be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer l.Stop()
	for i := 0; i < 5; i++ {
		if allowed, _ := l.Allow("c", "/jobs", "GET"); !allowed {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})
	defer l.Stop()

	l.Allow("a", "/jobs", "GET")
	*now = now.Add(2 * time.Minute)
	l.Allow("b", "/jobs", "GET")
	l.evictIdle()

	if len(l.buckets) != 1 {
		t.Errorf("buckets = %d, want 1", len(l.buckets))
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/jobs", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()
	tests := []struct {
		path, method string
		wantPath     string
	}{
		{"/health", "GET", "/health"},
		{"/jobs", "GET", "/jobs"},
		{"/jobs/abc", "GET", "/jobs/"},
		{"/salary/normalize", "POST", "/salary/normalize"},
		{"/salary/normalize", "GET", ""},
		{"/salary/bands", "GET", ""},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		switch {
		case tt.wantPath == "" && got != nil:
			t.Errorf("MatchEndpoint(%s %s) = %s, want nil", tt.method, tt.path, got.Path)
		case tt.wantPath != "" && (got == nil || got.Path != tt.wantPath):
			t.Errorf("MatchEndpoint(%s %s) = %v, want %s", tt.method, tt.path, got, tt.wantPath)
		}
	}
}

func TestParseIPList(t *testing.T) {
	got := parseIPList(" 1.1.1.1, ,2.2.2.2 ")
	if len(got) != 2 || !got["1.1.1.1"] || !got["2.2.2.2"] {
		t.Errorf("parseIPList = %v", got)
	}
}
