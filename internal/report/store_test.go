package report

import (
	"errors"
	"testing"
	"time"

	"github.com/launchdeck/launchdeck/internal/health"
)

func sampleReport(id string) *RunReport {
	return &RunReport{
		ID:          id,
		Target:      "vercel",
		Environment: "production",
		Status:      StatusSuccess,
		States:      []string{"init", "checking_prereqs", "building", "deploying", "verifying", "done"},
		StartedAt:   time.Now().UTC(),
		Health:      &HealthReport{Outcome: health.Healthy, Attempts: 2, Healthy: true},
	}
}

func TestDiskStore_SaveLoad(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	want := sampleReport("run-1")
	want.Warn(WarnBuild, "lint", "npm run lint exited 1")
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Target != "vercel" || got.Status != StatusSuccess {
		t.Errorf("loaded report = %+v", got)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Kind != WarnBuild {
		t.Errorf("Warnings = %v", got.Warnings)
	}
	if got.Health == nil || !got.Health.Healthy {
		t.Errorf("Health = %+v", got.Health)
	}
}

func TestDiskStore_LoadMissing(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	if _, err := s.Load("no-such-run"); err == nil {
		t.Fatal("expected error for missing report")
	}
}

// countingStore wraps a Store to count backing loads.
type countingStore struct {
	back  Store
	loads int
}

func (c *countingStore) Save(r *RunReport) error { return c.back.Save(r) }
func (c *countingStore) Load(id string) (*RunReport, error) {
	c.loads++
	return c.back.Load(id)
}

func TestLRUStore_CacheHitSkipsBacking(t *testing.T) {
	disk := &countingStore{back: NewDiskStore(t.TempDir())}
	s := NewLRUStore(2, disk)

	if err := s.Save(sampleReport("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Load("a"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if disk.loads != 0 {
		t.Errorf("backing loads = %d, want 0 (cache hit)", disk.loads)
	}
}

func TestLRUStore_EvictionFallsBackToDisk(t *testing.T) {
	disk := &countingStore{back: NewDiskStore(t.TempDir())}
	s := NewLRUStore(2, disk)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Save(sampleReport(id)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	// "a" was evicted; loading it must hit the backing store.
	got, err := s.Load("a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != "a" {
		t.Errorf("ID = %q, want a", got.ID)
	}
	if disk.loads != 1 {
		t.Errorf("backing loads = %d, want 1", disk.loads)
	}

	// Now promoted; a second load is a cache hit.
	if _, err := s.Load("a"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if disk.loads != 1 {
		t.Errorf("backing loads = %d, want still 1", disk.loads)
	}
}

type failingStore struct{}

func (failingStore) Save(*RunReport) error          { return errors.New("disk full") }
func (failingStore) Load(string) (*RunReport, error) { return nil, errors.New("not found") }

func TestLRUStore_SaveErrorPropagates(t *testing.T) {
	s := NewLRUStore(2, failingStore{})
	if err := s.Save(sampleReport("x")); err == nil {
		t.Fatal("expected backing store error")
	}
}
