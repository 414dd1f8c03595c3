package deploy

import (
	"context"

	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// railwayDeployer pushes the workspace with the Railway CLI. The CLI
// reads its own credentials from railway login state.
type railwayDeployer struct {
	run        CommandRunner
	production bool
}

func (d *railwayDeployer) Rules() []prereq.Rule {
	return []prereq.Rule{
		prereq.ToolOnPath("railway"),
	}
}

func (d *railwayDeployer) Deploy(ctx context.Context, _ string) (*runner.Result, error) {
	argv := []string{"railway", "up", "--detach"}
	if !d.production {
		argv = append(argv, "--environment", "staging")
	}
	return d.run.Run(ctx, argv, "")
}

func (d *railwayDeployer) Describe() string { return "railway up" }
