package deploy

import (
	"context"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// ghPagesDeployer publishes the artifact to the gh-pages branch via
// npx. GITHUB_TOKEN reaches git through the child environment.
type ghPagesDeployer struct {
	run   CommandRunner
	creds config.Credentials
}

func (d *ghPagesDeployer) Rules() []prereq.Rule {
	return []prereq.Rule{
		prereq.ToolOnPath("npx"),
		prereq.EnvVarSet("GITHUB_TOKEN"),
	}
}

func (d *ghPagesDeployer) Deploy(ctx context.Context, artifact string) (*runner.Result, error) {
	return d.run.Run(ctx, []string{"npx", "gh-pages", "-d", artifact}, "")
}

func (d *ghPagesDeployer) Describe() string { return "npx gh-pages" }
