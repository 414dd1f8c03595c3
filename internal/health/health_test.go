package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestPoller(maxAttempts int) *Poller {
	return &Poller{
		Interval:    time.Millisecond,
		MaxAttempts: maxAttempts,
	}
}

func TestPoll_EmptyURLSkipped(t *testing.T) {
	outcome, attempts := newTestPoller(5).Poll(context.Background(), "")
	if outcome != Skipped {
		t.Errorf("outcome = %q, want %q", outcome, Skipped)
	}
	if attempts != 0 {
		t.Errorf("attempts = %d, want 0", attempts)
	}
}

func TestPoll_HealthyOnFirstAttempt(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	outcome, attempts := newTestPoller(30).Poll(context.Background(), srv.URL)
	if outcome != Healthy {
		t.Errorf("outcome = %q, want %q", outcome, Healthy)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1 (no polling after success)", got)
	}
}

func TestPoll_HealthyOnAttemptM(t *testing.T) {
	const m = 4
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < m {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	outcome, attempts := newTestPoller(30).Poll(context.Background(), srv.URL)
	if outcome != Healthy {
		t.Errorf("outcome = %q, want %q", outcome, Healthy)
	}
	if attempts != m {
		t.Errorf("attempts = %d, want %d", attempts, m)
	}
	if got := requests.Load(); got != m {
		t.Errorf("server saw %d requests, want exactly %d", got, m)
	}
}

func TestPoll_ExhaustsAttemptBudget(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	outcome, attempts := newTestPoller(30).Poll(context.Background(), srv.URL)
	if outcome != Unhealthy {
		t.Errorf("outcome = %q, want %q", outcome, Unhealthy)
	}
	if attempts != 30 {
		t.Errorf("attempts = %d, want 30", attempts)
	}
	if got := requests.Load(); got != 30 {
		t.Errorf("server saw %d requests, want exactly 30", got)
	}
}

func TestPoll_UnreachableHost(t *testing.T) {
	// Closed server: every probe errors out.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	outcome, attempts := newTestPoller(3).Poll(context.Background(), url)
	if outcome != Unhealthy {
		t.Errorf("outcome = %q, want %q", outcome, Unhealthy)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestPoll_Non2xxIsNotHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()

	// Disable redirect following so the 302 is what the poller sees.
	p := newTestPoller(2)
	p.Client = &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	outcome, _ := p.Poll(context.Background(), srv.URL)
	if outcome != Unhealthy {
		t.Errorf("outcome = %q, want %q", outcome, Unhealthy)
	}
}

func TestPoll_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Poller{Interval: time.Minute, MaxAttempts: 100}
	outcome, attempts := p.Poll(ctx, srv.URL)
	if outcome != Unhealthy {
		t.Errorf("outcome = %q, want %q", outcome, Unhealthy)
	}
	if attempts > 1 {
		t.Errorf("attempts = %d, want at most 1 after cancellation", attempts)
	}
}
