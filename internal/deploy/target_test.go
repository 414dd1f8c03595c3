package deploy

import (
	"errors"
	"testing"
)

func TestParseTarget_Known(t *testing.T) {
	got, err := ParseTarget(KindFrontend, "netlify")
	if err != nil {
		t.Fatalf("ParseTarget: %v", err)
	}
	if got != Netlify {
		t.Errorf("got %q, want netlify", got)
	}

	got, err = ParseTarget(KindBackend, "heroku")
	if err != nil {
		t.Fatalf("ParseTarget: %v", err)
	}
	if got != Heroku {
		t.Errorf("got %q, want heroku", got)
	}
}

func TestParseTarget_Unknown(t *testing.T) {
	_, err := ParseTarget(KindFrontend, "fly")
	if err == nil {
		t.Fatal("expected error for unknown target")
	}
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Kind != UnknownTarget {
		t.Errorf("error = %v, want FatalError with kind unknown_target", err)
	}
}

func TestParseTarget_WrongKind(t *testing.T) {
	// render is a backend target; the frontend command must reject it.
	if _, err := ParseTarget(KindFrontend, "render"); err == nil {
		t.Fatal("expected error for backend target on frontend kind")
	}
	if _, err := ParseTarget(KindBackend, "vercel"); err == nil {
		t.Fatal("expected error for frontend target on backend kind")
	}
}

func TestTarget_Kind(t *testing.T) {
	for _, target := range FrontendTargets {
		if target.Kind() != KindFrontend {
			t.Errorf("%s.Kind() = %q, want frontend", target, target.Kind())
		}
	}
	for _, target := range BackendTargets {
		if target.Kind() != KindBackend {
			t.Errorf("%s.Kind() = %q, want backend", target, target.Kind())
		}
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg := &Registry{deployers: map[Target]Deployer{}}
	_, err := reg.Lookup(Target("fly"))
	if err == nil {
		t.Fatal("expected error")
	}
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Kind != UnknownTarget {
		t.Errorf("error = %v, want FatalError with kind unknown_target", err)
	}
}
