package deploy

import (
	"context"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// herokuDeployer deploys with a git push to the heroku remote, which
// must already be configured in the workspace repository.
type herokuDeployer struct {
	run CommandRunner
	cfg config.HerokuConfig
}

func (d *herokuDeployer) Rules() []prereq.Rule {
	return []prereq.Rule{
		prereq.ToolOnPath("git"),
	}
}

func (d *herokuDeployer) Deploy(ctx context.Context, _ string) (*runner.Result, error) {
	return d.run.Run(ctx, []string{"git", "push", d.cfg.GitRemote(), d.cfg.GitBranch()}, "")
}

func (d *herokuDeployer) Describe() string { return "git push " + d.cfg.GitRemote() }
