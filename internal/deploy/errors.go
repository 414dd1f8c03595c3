package deploy

import "fmt"

// FailureKind classifies a fatal run failure. Fatal kinds abort the
// engine immediately; non-fatal findings are warnings on the report
// and never abort (see report.WarnKind).
type FailureKind string

const (
	// PrerequisiteMissing means a mandatory workspace rule was unmet.
	PrerequisiteMissing FailureKind = "prerequisite_missing"
	// BuildFatal means an install or build command failed, or no
	// artifact directory was produced.
	BuildFatal FailureKind = "build_fatal"
	// CredentialMissing means a deployer's mandatory credential was unset.
	CredentialMissing FailureKind = "credential_missing"
	// UnknownTarget means the target name is outside the closed set.
	UnknownTarget FailureKind = "unknown_target"
	// DeployFailed means the single deployment action did not succeed.
	DeployFailed FailureKind = "deploy_failed"
)

// FatalError aborts a run. It carries the failing step's captured
// output so the terminal error is self-contained.
type FatalError struct {
	Kind    FailureKind
	Step    string // build step or deployer name, when applicable
	Message string
	Output  string // captured stdout/stderr of the failing command
}

func (e *FatalError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Step, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
