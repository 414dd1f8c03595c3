// Package report defines the terminal record of a deployment run and
// its persistence. Reports are stored as JSON and can be reloaded by
// run ID for later inspection.
package report

import (
	"time"

	"github.com/launchdeck/launchdeck/internal/health"
	"github.com/launchdeck/launchdeck/internal/prereq"
)

// Status is the overall result of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// WarnKind classifies a non-fatal finding.
type WarnKind string

const (
	// WarnBuild marks a non-fatal build step failure (lint, test).
	WarnBuild WarnKind = "build_warning"
	// WarnHealthTimeout marks an exhausted health check budget.
	WarnHealthTimeout WarnKind = "health_check_timeout"
	// WarnPrereq marks an unsatisfied optional prerequisite.
	WarnPrereq WarnKind = "prerequisite"
	// WarnHistory marks a run-history persistence failure.
	WarnHistory WarnKind = "history"
)

// Warning is a non-fatal finding accumulated during a run. Warnings
// never flip the overall run status.
type Warning struct {
	Kind    WarnKind `json:"kind"`
	Step    string   `json:"step,omitempty"`
	Message string   `json:"message"`
}

// StepReport records one build pipeline step.
type StepReport struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"` // pass, fail, skipped
	Fatal    bool          `json:"fatal"`
	ExitCode int           `json:"exit_code"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Duration time.Duration `json:"duration"`
	Output   string        `json:"output,omitempty"` // captured only on failure
}

// DeployReport records the single deployment action.
type DeployReport struct {
	Action   string        `json:"action"` // the command or hook that ran
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
	Output   string        `json:"output,omitempty"`
}

// HealthReport records post-deploy verification.
//
// Healthy is only ever true when a 2xx response was observed within
// the attempt budget; a skipped check leaves it false with outcome
// "skipped", never "healthy".
type HealthReport struct {
	URL      string         `json:"url,omitempty"`
	Outcome  health.Outcome `json:"outcome"`
	Attempts int            `json:"attempts"`
	Healthy  bool           `json:"healthy"`
}

// RunReport is the terminal record for one deployment run.
type RunReport struct {
	ID          string        `json:"id"`
	Target      string        `json:"target"`
	Environment string        `json:"environment"`
	Status      Status        `json:"status"`
	States      []string      `json:"states"` // orchestrator states traversed, in order
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`

	Prereqs     *prereq.Report `json:"prereqs,omitempty"`
	Credentials *prereq.Report `json:"credentials,omitempty"`
	Steps       []StepReport   `json:"steps,omitempty"`
	Artifact    string         `json:"artifact,omitempty"`
	Deploy      *DeployReport  `json:"deploy,omitempty"`
	Health      *HealthReport  `json:"health,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
	Error    string    `json:"error,omitempty"` // fatal error message, if any

	// Followups are manual checks launchdeck cannot verify itself.
	Followups []string `json:"followups,omitempty"`
}

// Warn appends a warning to the report.
func (r *RunReport) Warn(kind WarnKind, step, message string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Step: step, Message: message})
}

// Enter records an orchestrator state transition.
func (r *RunReport) Enter(state string) {
	r.States = append(r.States, state)
}

// Store persists and retrieves run reports.
type Store interface {
	Save(report *RunReport) error
	Load(runID string) (*RunReport, error)
}
