package deploy

import (
	"reflect"
	"testing"

	"github.com/launchdeck/launchdeck/internal/config"
)

func TestDefaultSteps_FrontendHasBuild(t *testing.T) {
	steps := DefaultSteps(KindFrontend)
	var names []string
	for _, s := range steps {
		names = append(names, s.Name)
	}
	want := []string{"install", "lint", "test", "build"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("steps = %v, want %v", names, want)
	}

	if !steps[0].Fatal {
		t.Error("install must be fatal")
	}
	if steps[1].Fatal || steps[2].Fatal {
		t.Error("lint and test must be non-fatal")
	}
	if !steps[3].Fatal {
		t.Error("build must be fatal")
	}
}

func TestDefaultSteps_BackendSkipsBuild(t *testing.T) {
	steps := DefaultSteps(KindBackend)
	for _, s := range steps {
		if s.Name == "build" {
			t.Error("backend pipeline must not have a build step")
		}
	}
	if len(steps) != 3 {
		t.Errorf("got %d steps, want 3", len(steps))
	}
}

func TestStepsFromConfig_Override(t *testing.T) {
	fatal := true
	cfg := config.BuildConfig{Steps: []config.StepConfig{
		{Name: "install", Run: "pnpm install"},
		{Name: "typecheck", Run: "pnpm run typecheck", Fatal: &fatal},
		{Name: "lint", Run: "pnpm run lint"},
	}}

	steps := StepsFromConfig(cfg, KindFrontend)
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}

	// Configured commands run through the shell.
	if !reflect.DeepEqual(steps[0].Argv, []string{"sh", "-c", "pnpm install"}) {
		t.Errorf("Argv = %v", steps[0].Argv)
	}
	// install is fatal by name default; typecheck is fatal explicitly;
	// lint stays lenient.
	if !steps[0].Fatal {
		t.Error("install should default to fatal")
	}
	if !steps[1].Fatal {
		t.Error("explicit fatal flag ignored")
	}
	if steps[2].Fatal {
		t.Error("lint should default to non-fatal")
	}
}

func TestStepsFromConfig_EmptyFallsBack(t *testing.T) {
	steps := StepsFromConfig(config.BuildConfig{}, KindBackend)
	if !reflect.DeepEqual(steps, DefaultSteps(KindBackend)) {
		t.Errorf("empty config should fall back to defaults, got %v", steps)
	}
}
