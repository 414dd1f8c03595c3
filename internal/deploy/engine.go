// Package deploy contains the deployment orchestrator: prerequisite
// checks, the build pipeline, target dispatch, and post-deploy
// verification, composed into a single sequential run.
package deploy

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/health"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/report"
)

// Orchestrator states, recorded on the report in traversal order.
// Failed is reachable from checking_prereqs, building, and deploying;
// verifying never fails a run.
const (
	stateInit     = "init"
	statePrereqs  = "checking_prereqs"
	stateBuilding = "building"
	stateDeploy   = "deploying"
	stateVerify   = "verifying"
	stateDone     = "done"
	stateFailed   = "failed"
)

// HistoryRecorder persists finished runs. Implemented by history.Store.
type HistoryRecorder interface {
	Record(rep *report.RunReport) error
}

// Engine owns the lifecycle of exactly one deployment run at a time.
// All execution is strictly sequential; there is no rollback — a
// failed deploy leaves the vendor side wherever the vendor tool
// stopped.
type Engine struct {
	Config    *config.Config
	Creds     config.Credentials
	Runner    CommandRunner
	Registry  *Registry
	Poller    *health.Poller
	Store     report.Store    // optional; saved reports feed later inspection
	History   HistoryRecorder // optional; failures are warnings, never fatal
	Workspace string

	// Progress receives live step lines when non-nil.
	Progress io.Writer

	// LookPath overrides tool resolution in prerequisite checks (tests).
	LookPath func(name string) (string, error)
}

// Deploy runs the full pipeline for one target and environment and
// returns the terminal report. A non-nil error is always a *FatalError
// and corresponds to report status "failed"; warnings alone never
// produce an error.
func (e *Engine) Deploy(ctx context.Context, target Target, environment string) (*report.RunReport, error) {
	start := time.Now()
	rep := &report.RunReport{
		ID:          uuid.New().String(),
		Target:      string(target),
		Environment: environment,
		StartedAt:   start.UTC(),
	}
	rep.Enter(stateInit)

	fail := func(err error) (*report.RunReport, error) {
		rep.Enter(stateFailed)
		rep.Status = report.StatusFailed
		rep.Error = err.Error()
		rep.Duration = time.Since(start)
		e.persist(rep)
		return rep, err
	}

	checker := &prereq.Checker{
		Workspace: e.Workspace,
		Env:       e.Creds,
		LookPath:  e.LookPath,
	}

	// --- Prerequisites ---
	rep.Enter(statePrereqs)
	e.logf("checking prerequisites for %s", target)

	preReport := checker.Check(e.baseRules(target.Kind()))
	rep.Prereqs = &preReport
	for _, w := range preReport.Warnings() {
		rep.Warn(report.WarnPrereq, w.Name, w.Detail)
	}
	if preReport.Blocked() {
		return fail(&FatalError{
			Kind:    PrerequisiteMissing,
			Message: "unsatisfied: " + strings.Join(preReport.Missing(), ", "),
		})
	}

	// --- Build ---
	rep.Enter(stateBuilding)
	steps := StepsFromConfig(e.Config.Build, target.Kind())
	if err := e.runBuild(ctx, rep, steps); err != nil {
		return fail(err)
	}

	if target.Kind() == KindFrontend {
		artifact, err := e.findArtifact(e.Config.Build.Dirs())
		if err != nil {
			return fail(err)
		}
		rep.Artifact = artifact
		e.logf("artifact: %s", artifact)
	}

	// --- Deploy ---
	rep.Enter(stateDeploy)
	deployer, err := e.Registry.Lookup(target)
	if err != nil {
		return fail(err)
	}

	credReport := checker.Check(deployer.Rules())
	rep.Credentials = &credReport
	if credReport.Blocked() {
		return fail(&FatalError{
			Kind:    CredentialMissing,
			Step:    string(target),
			Message: "unsatisfied: " + strings.Join(credReport.Missing(), ", "),
		})
	}

	e.logf("deploying via %s", deployer.Describe())
	res, err := deployer.Deploy(ctx, rep.Artifact)
	if err != nil {
		return fail(&FatalError{Kind: DeployFailed, Step: string(target), Message: err.Error()})
	}
	rep.Deploy = &report.DeployReport{
		Action:   deployer.Describe(),
		ExitCode: res.ExitCode,
		Duration: res.Duration,
		Output:   res.Output(),
	}
	if res.Failed() {
		msg := deployer.Describe() + " exited non-zero"
		if res.TimedOut {
			msg = deployer.Describe() + " timed out"
		}
		return fail(&FatalError{Kind: DeployFailed, Step: string(target), Message: msg, Output: res.Output()})
	}

	// --- Verify ---
	// Advisory only: an unhealthy or skipped check is reported but
	// never flips the run to failed.
	rep.Enter(stateVerify)
	url := e.healthURL(target.Kind())
	outcome, attempts := e.Poller.Poll(ctx, url)
	rep.Health = &report.HealthReport{
		URL:      url,
		Outcome:  outcome,
		Attempts: attempts,
		Healthy:  outcome == health.Healthy,
	}
	switch outcome {
	case health.Healthy:
		e.logf("health check passed after %d attempt(s)", attempts)
	case health.Unhealthy:
		rep.Warn(report.WarnHealthTimeout, "health",
			fmt.Sprintf("%s not healthy after %d attempts", url, attempts))
		e.logf("warn: health check exhausted %d attempts", attempts)
	case health.Skipped:
		e.logf("health check skipped (no URL configured)")
	}

	rep.Enter(stateDone)
	rep.Status = report.StatusSuccess
	rep.Duration = time.Since(start)
	rep.Followups = followups(outcome)
	e.persist(rep)
	return rep, nil
}

// baseRules are the workspace-level prerequisites common to every
// target of a kind. The API base URL and Mongo URI are collaborator
// contracts: absent values warn but do not block.
func (e *Engine) baseRules(kind Kind) []prereq.Rule {
	rules := []prereq.Rule{
		prereq.FileExists("package.json"),
		prereq.ToolOnPath("npm"),
	}
	if kind == KindFrontend {
		rules = append(rules, prereq.EnvVarSet("VITE_API_BASE_URL").Optional())
	} else {
		rules = append(rules, prereq.EnvVarSet("MONGODB_URI").Optional())
	}
	return rules
}

// healthURL picks the verification URL: the explicit config value wins,
// then the deployed half's URL from the credential snapshot. Empty
// means verification is skipped.
func (e *Engine) healthURL(kind Kind) string {
	if e.Config.Health.URL != "" {
		return e.Config.Health.URL
	}
	if kind == KindFrontend {
		return e.Creds.Get("FRONTEND_URL")
	}
	return e.Creds.Get("BACKEND_URL")
}

// followups lists the manual checks launchdeck cannot verify itself.
func followups(outcome health.Outcome) []string {
	out := []string{
		"open the site and watch the browser console for errors",
		"confirm static assets and API responses load",
		"review the vendor dashboard for build and deploy logs",
	}
	if outcome == health.Skipped {
		out = append(out, "hit the health endpoint manually (no URL was configured)")
	}
	return out
}

// persist records the run in history and the report store. Both are
// best-effort: a deploy outcome is never changed by bookkeeping.
func (e *Engine) persist(rep *report.RunReport) {
	if e.History != nil {
		if err := e.History.Record(rep); err != nil {
			rep.Warn(report.WarnHistory, "", err.Error())
		}
	}
	if e.Store != nil {
		_ = e.Store.Save(rep)
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Progress != nil {
		fmt.Fprintf(e.Progress, format+"\n", args...)
	}
}
