// Package health verifies a deployed site by polling its URL at a fixed
// interval. This is the only retry logic in launchdeck; deployers get
// exactly one attempt.
package health

import (
	"context"
	"net/http"
	"time"
)

// Outcome is the terminal result of a polling session.
type Outcome string

const (
	// Healthy means a 2xx response was observed within the attempt budget.
	Healthy Outcome = "healthy"
	// Unhealthy means the attempt budget was exhausted without a 2xx.
	Unhealthy Outcome = "unhealthy"
	// Skipped means no URL was configured; nothing was verified.
	Skipped Outcome = "skipped"
)

// Poller issues GET requests against a URL until one succeeds or the
// attempt budget runs out. Fixed interval, no backoff.
type Poller struct {
	Client      *http.Client
	Interval    time.Duration
	MaxAttempts int
}

// Poll checks url up to MaxAttempts times, sleeping Interval between
// attempts. The first 2xx response ends polling immediately. Returns
// the outcome and the number of requests actually made.
//
// An empty url yields Skipped with zero requests, never Healthy.
func (p *Poller) Poll(ctx context.Context, url string) (Outcome, int) {
	if url == "" {
		return Skipped, 0
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	attempts := 0
	for attempts < p.MaxAttempts {
		attempts++
		if p.probe(ctx, client, url) {
			return Healthy, attempts
		}
		if attempts == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Unhealthy, attempts
		case <-time.After(p.Interval):
		}
	}
	return Unhealthy, attempts
}

func (p *Poller) probe(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
