package deploy

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/report"
)

// Step is one build pipeline entry. Fatal is an explicit data value:
// a fatal step failing aborts the pipeline, a non-fatal one is
// recorded as a warning and execution continues.
type Step struct {
	Name  string
	Argv  []string
	Fatal bool
}

// fatalByDefault marks the step names whose failure halts the pipeline
// when the config does not say otherwise. Lint and test stay lenient.
var fatalByDefault = map[string]bool{
	"install": true,
	"build":   true,
}

// DefaultSteps is the install → lint → test → build pipeline used when
// no build steps are configured. Backends skip the build step; they
// are deployed from source.
func DefaultSteps(kind Kind) []Step {
	steps := []Step{
		{Name: "install", Argv: []string{"npm", "ci"}, Fatal: true},
		{Name: "lint", Argv: []string{"npm", "run", "lint"}},
		{Name: "test", Argv: []string{"npm", "test"}},
	}
	if kind == KindFrontend {
		steps = append(steps, Step{Name: "build", Argv: []string{"npm", "run", "build"}, Fatal: true})
	}
	return steps
}

// StepsFromConfig converts configured steps, falling back to defaults.
// Configured commands are shell lines, run via sh -c.
func StepsFromConfig(cfg config.BuildConfig, kind Kind) []Step {
	if len(cfg.Steps) == 0 {
		return DefaultSteps(kind)
	}
	steps := make([]Step, 0, len(cfg.Steps))
	for _, sc := range cfg.Steps {
		fatal := fatalByDefault[sc.Name]
		if sc.Fatal != nil {
			fatal = *sc.Fatal
		}
		steps = append(steps, Step{
			Name:  sc.Name,
			Argv:  []string{"sh", "-c", sc.Run},
			Fatal: fatal,
		})
	}
	return steps
}

// runBuild executes the pipeline in order. A fatal step failing aborts
// the remaining steps and returns a BuildFatal error with the step's
// captured output; non-fatal failures become warnings on the report.
func (e *Engine) runBuild(ctx context.Context, rep *report.RunReport, steps []Step) error {
	for i, step := range steps {
		e.logf("→ %s", step.Name)

		res, err := e.Runner.Run(ctx, step.Argv, "")
		if err != nil {
			rep.Steps = append(rep.Steps, report.StepReport{Name: step.Name, Status: "fail", Fatal: step.Fatal, ExitCode: -1})
			markSkipped(rep, steps[i+1:])
			return &FatalError{Kind: BuildFatal, Step: step.Name, Message: err.Error()}
		}

		sr := report.StepReport{
			Name:     step.Name,
			Fatal:    step.Fatal,
			ExitCode: res.ExitCode,
			TimedOut: res.TimedOut,
			Duration: res.Duration,
		}

		if res.Failed() {
			sr.Status = "fail"
			sr.Output = res.Output()
			rep.Steps = append(rep.Steps, sr)

			msg := step.Name + " exited non-zero"
			if res.TimedOut {
				msg = step.Name + " timed out"
			}
			if step.Fatal {
				markSkipped(rep, steps[i+1:])
				return &FatalError{Kind: BuildFatal, Step: step.Name, Message: msg, Output: res.Output()}
			}
			rep.Warn(report.WarnBuild, step.Name, msg+" (continuing)")
			e.logf("  warn: %s", msg)
			continue
		}

		sr.Status = "pass"
		rep.Steps = append(rep.Steps, sr)
	}
	return nil
}

func markSkipped(rep *report.RunReport, remaining []Step) {
	for _, step := range remaining {
		rep.Steps = append(rep.Steps, report.StepReport{Name: step.Name, Status: "skipped", Fatal: step.Fatal})
	}
}

// findArtifact returns the first existing candidate output directory,
// relative to the workspace. No match is fatal: there is nothing to
// deploy.
func (e *Engine) findArtifact(candidates []string) (string, error) {
	for _, dir := range candidates {
		info, err := os.Stat(filepath.Join(e.Workspace, dir))
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", &FatalError{
		Kind:    BuildFatal,
		Step:    "artifact",
		Message: "no build output found (tried " + strings.Join(candidates, ", ") + ")",
	}
}
