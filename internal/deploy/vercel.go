package deploy

import (
	"context"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// vercelDeployer invokes the Vercel CLI. Vercel runs its own remote
// build, so the local artifact is advisory only.
type vercelDeployer struct {
	run        CommandRunner
	creds      config.Credentials
	production bool
}

func (d *vercelDeployer) Rules() []prereq.Rule {
	return []prereq.Rule{
		prereq.ToolOnPath("vercel"),
		prereq.EnvVarSet("VERCEL_TOKEN"),
	}
}

func (d *vercelDeployer) Deploy(ctx context.Context, artifact string) (*runner.Result, error) {
	argv := []string{"vercel", "deploy", "--yes", "--token", d.creds.Get("VERCEL_TOKEN")}
	if d.production {
		argv = append(argv, "--prod")
	}
	return d.run.Run(ctx, argv, "")
}

func (d *vercelDeployer) Describe() string { return "vercel deploy" }
