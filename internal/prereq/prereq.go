// Package prereq evaluates preconditions (files, tools, credentials)
// before a deployment run proceeds. All rules are evaluated so the
// report is complete; a single unsatisfied mandatory rule blocks the run.
package prereq

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// RuleKind identifies what a rule checks.
type RuleKind string

const (
	// KindFileExists checks that a path exists relative to the workspace.
	KindFileExists RuleKind = "file"
	// KindToolOnPath checks that a binary is resolvable via PATH.
	KindToolOnPath RuleKind = "tool"
	// KindEnvVarSet checks that a variable is present and non-empty in
	// the checker's environment snapshot.
	KindEnvVarSet RuleKind = "env"
)

// Rule is a single precondition. Construct rules with FileExists,
// ToolOnPath, or EnvVarSet; rules are mandatory unless marked otherwise.
type Rule struct {
	Kind      RuleKind
	Arg       string
	Mandatory bool
}

// FileExists returns a mandatory rule requiring path to exist.
func FileExists(path string) Rule {
	return Rule{Kind: KindFileExists, Arg: path, Mandatory: true}
}

// ToolOnPath returns a mandatory rule requiring the named binary on PATH.
func ToolOnPath(name string) Rule {
	return Rule{Kind: KindToolOnPath, Arg: name, Mandatory: true}
}

// EnvVarSet returns a mandatory rule requiring the named variable to be
// set and non-empty.
func EnvVarSet(name string) Rule {
	return Rule{Kind: KindEnvVarSet, Arg: name, Mandatory: true}
}

// Optional returns a copy of the rule that warns instead of blocking.
func (r Rule) Optional() Rule {
	r.Mandatory = false
	return r
}

// Name returns a short identifier for the rule, e.g. "env:VERCEL_TOKEN".
func (r Rule) Name() string {
	return string(r.Kind) + ":" + r.Arg
}

// Entry is the evaluated outcome of one rule.
type Entry struct {
	Name      string `json:"name"`
	Satisfied bool   `json:"satisfied"`
	Mandatory bool   `json:"mandatory"`
	Detail    string `json:"detail,omitempty"`
}

// Report holds one entry per input rule, in input order. Immutable
// once produced.
type Report struct {
	Entries []Entry `json:"entries"`
}

// Blocked reports whether any mandatory rule is unsatisfied.
func (r Report) Blocked() bool {
	for _, e := range r.Entries {
		if e.Mandatory && !e.Satisfied {
			return true
		}
	}
	return false
}

// Missing returns the names of unsatisfied mandatory rules.
func (r Report) Missing() []string {
	var out []string
	for _, e := range r.Entries {
		if e.Mandatory && !e.Satisfied {
			out = append(out, e.Name)
		}
	}
	return out
}

// Warnings returns the entries for unsatisfied non-mandatory rules.
func (r Report) Warnings() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.Mandatory && !e.Satisfied {
			out = append(out, e)
		}
	}
	return out
}

// Checker evaluates rules against a workspace and an explicit
// environment snapshot. It never reads the ambient process environment;
// the config loader owns that.
type Checker struct {
	Workspace string
	Env       map[string]string

	// LookPath resolves tool rules; defaults to exec.LookPath.
	LookPath func(name string) (string, error)
}

// Check evaluates every rule and returns a complete report. It does
// not short-circuit on the first failure.
func (c *Checker) Check(rules []Rule) Report {
	entries := make([]Entry, len(rules))
	for i, rule := range rules {
		entries[i] = c.evaluate(rule)
	}
	return Report{Entries: entries}
}

func (c *Checker) evaluate(rule Rule) Entry {
	e := Entry{Name: rule.Name(), Mandatory: rule.Mandatory}

	switch rule.Kind {
	case KindFileExists:
		path := rule.Arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.Workspace, path)
		}
		if _, err := os.Stat(path); err == nil {
			e.Satisfied = true
			e.Detail = path
		} else {
			e.Detail = fmt.Sprintf("%s not found", rule.Arg)
		}

	case KindToolOnPath:
		lookPath := c.LookPath
		if lookPath == nil {
			lookPath = exec.LookPath
		}
		if resolved, err := lookPath(rule.Arg); err == nil {
			e.Satisfied = true
			e.Detail = resolved
		} else {
			e.Detail = fmt.Sprintf("%s not on PATH", rule.Arg)
		}

	case KindEnvVarSet:
		if c.Env[rule.Arg] != "" {
			e.Satisfied = true
			e.Detail = "set"
		} else {
			e.Detail = fmt.Sprintf("%s is not set", rule.Arg)
		}

	default:
		e.Detail = fmt.Sprintf("unknown rule kind %q", rule.Kind)
	}

	return e
}
