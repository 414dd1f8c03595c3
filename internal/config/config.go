// Package config loads the optional .launchdeck YAML file and the
// credential snapshot. It is the only package that reads the process
// environment; every other component receives explicit configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for runner and health configuration.
const (
	DefaultTimeout        = 10 * time.Minute
	DefaultMaxOutput      = 1 << 20 // 1 MB
	DefaultHealthInterval = 2 * time.Second
	DefaultHealthAttempts = 30
)

// DefaultArtifactDirs are checked in order when no artifact_dirs are
// configured; the first existing directory wins.
var DefaultArtifactDirs = []string{"dist", "build", "out"}

// Config holds the parsed .launchdeck configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int          `yaml:"version"`
	RawTimeout   string       `yaml:"timeout"`    // e.g. "5m", "30s"
	RawMaxOutput int          `yaml:"max_output"` // bytes
	Build        BuildConfig  `yaml:"build"`
	Health       HealthConfig `yaml:"health"`
	Heroku       HerokuConfig `yaml:"heroku"`
}

// Timeout returns the configured per-command timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// BuildConfig controls the build pipeline that runs before deployment.
type BuildConfig struct {
	// Steps overrides the default install/lint/test/build pipeline.
	Steps []StepConfig `yaml:"steps"`
	// ArtifactDirs overrides the candidate output directories.
	ArtifactDirs []string `yaml:"artifact_dirs"`
}

// StepConfig is one build pipeline entry. Run is a shell command line.
// Fatal defaults per step name: install and build are fatal, lint and
// test are not.
type StepConfig struct {
	Name  string `yaml:"name"`
	Run   string `yaml:"run"`
	Fatal *bool  `yaml:"fatal"`
}

// Dirs returns the configured artifact candidates, falling back to defaults.
func (b BuildConfig) Dirs() []string {
	if len(b.ArtifactDirs) > 0 {
		return b.ArtifactDirs
	}
	return DefaultArtifactDirs
}

// HealthConfig controls post-deploy verification.
type HealthConfig struct {
	URL         string `yaml:"url"`      // overrides FRONTEND_URL / BACKEND_URL
	RawInterval string `yaml:"interval"` // e.g. "2s"
	Attempts    int    `yaml:"attempts"`
}

// Interval returns the poll interval, falling back to the default.
func (h HealthConfig) Interval() time.Duration {
	if h.RawInterval != "" {
		d, err := time.ParseDuration(h.RawInterval)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultHealthInterval
}

// MaxAttempts returns the attempt budget, falling back to the default.
func (h HealthConfig) MaxAttempts() int {
	if h.Attempts > 0 {
		return h.Attempts
	}
	return DefaultHealthAttempts
}

// HerokuConfig controls the git-push deploy flow.
type HerokuConfig struct {
	Remote string `yaml:"remote"` // default "heroku"
	Branch string `yaml:"branch"` // default "main"
}

// GitRemote returns the configured remote or "heroku".
func (h HerokuConfig) GitRemote() string {
	if h.Remote != "" {
		return h.Remote
	}
	return "heroku"
}

// GitBranch returns the configured branch or "main".
func (h HerokuConfig) GitBranch() string {
	if h.Branch != "" {
		return h.Branch
	}
	return "main"
}

// LoadResult holds the parsed config and the discovered project root.
type LoadResult struct {
	Config   *Config
	RepoRoot string // directory containing .launchdeck or package.json; falls back to workspace
}

// Load reads the .launchdeck file from the project root. The root is
// discovered by walking upward from workspace looking for .launchdeck,
// then package.json. If no .launchdeck file exists, a default Config
// is returned.
func Load(workspace string) (*LoadResult, error) {
	root, err := findProjectRoot(workspace)
	if err != nil {
		// No marker found; use workspace as root.
		root = workspace
	}

	path := filepath.Join(root, ".launchdeck")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: &Config{}, RepoRoot: root}, nil
		}
		return nil, fmt.Errorf("reading .launchdeck: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .launchdeck: %w", err)
	}
	return &LoadResult{Config: cfg, RepoRoot: root}, nil
}

// findProjectRoot walks upward from dir looking for a directory
// containing .launchdeck or package.json.
func findProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for _, marker := range []string{".launchdeck", "package.json"} {
		d := dir
		for {
			if _, err := os.Stat(filepath.Join(d, marker)); err == nil {
				return d, nil
			}
			parent := filepath.Dir(d)
			if parent == d {
				break
			}
			d = parent
		}
	}
	return "", fmt.Errorf("no project marker found")
}
