package runner

import "time"

// Result holds the output of a command execution. A non-zero exit code
// and a timeout are both normal, representable outcomes, not errors.
type Result struct {
	ExitCode  int           // process exit code (-1 when killed)
	Stdout    []byte        // captured stdout (may be truncated)
	Stderr    []byte        // captured stderr (may be truncated)
	TimedOut  bool          // true if the command exceeded the timeout
	Truncated bool          // true if output exceeded the size cap
	Duration  time.Duration // wall-clock time the command ran for
}

// Failed reports whether the command did not complete successfully.
func (r *Result) Failed() bool {
	return r.ExitCode != 0 || r.TimedOut
}

// Output returns stdout and stderr combined, stderr last.
func (r *Result) Output() string {
	return string(r.Stdout) + string(r.Stderr)
}
