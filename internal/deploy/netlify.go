package deploy

import (
	"context"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// netlifyDeployer uploads the built artifact with the Netlify CLI.
type netlifyDeployer struct {
	run        CommandRunner
	creds      config.Credentials
	production bool
}

func (d *netlifyDeployer) Rules() []prereq.Rule {
	return []prereq.Rule{
		prereq.ToolOnPath("netlify"),
		prereq.EnvVarSet("NETLIFY_AUTH_TOKEN"),
		prereq.EnvVarSet("NETLIFY_SITE_ID"),
	}
}

func (d *netlifyDeployer) Deploy(ctx context.Context, artifact string) (*runner.Result, error) {
	argv := []string{
		"netlify", "deploy",
		"--dir", artifact,
		"--site", d.creds.Get("NETLIFY_SITE_ID"),
		"--auth", d.creds.Get("NETLIFY_AUTH_TOKEN"),
	}
	if d.production {
		argv = append(argv, "--prod")
	}
	return d.run.Run(ctx, argv, "")
}

func (d *netlifyDeployer) Describe() string { return "netlify deploy" }
