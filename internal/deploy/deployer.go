package deploy

import (
	"context"
	"net/http"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// CommandRunner executes commands within the workspace.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, cwd string) (*runner.Result, error)
}

// Deployer wraps exactly one external deployment action: a vendor CLI
// subprocess, an HTTP deploy hook, or a git push. Deployers perform no
// retries; verification is the health poller's job.
type Deployer interface {
	// Rules returns the credentials and tools this deployer requires.
	Rules() []prereq.Rule
	// Deploy performs the single external action. artifact may be ""
	// for targets that deploy the workspace rather than a build output.
	Deploy(ctx context.Context, artifact string) (*runner.Result, error)
	// Describe returns the action for reports, e.g. "vercel deploy".
	Describe() string
}

// Registry maps targets to their deployer for one run. It is built
// per run because deployers capture the run's environment.
type Registry struct {
	deployers map[Target]Deployer
}

// NewRegistry builds the full target registry. production selects the
// production variant of each vendor action (e.g. vercel --prod).
func NewRegistry(cfg *config.Config, creds config.Credentials, run CommandRunner, client *http.Client, production bool) *Registry {
	return &Registry{deployers: map[Target]Deployer{
		Vercel:      &vercelDeployer{run: run, creds: creds, production: production},
		Netlify:     &netlifyDeployer{run: run, creds: creds, production: production},
		GitHubPages: &ghPagesDeployer{run: run, creds: creds},
		Render:      &renderDeployer{client: client, creds: creds},
		Railway:     &railwayDeployer{run: run, production: production},
		Heroku:      &herokuDeployer{run: run, cfg: cfg.Heroku},
	}}
}

// Lookup returns the deployer for a target. A target outside the
// registry is a fatal configuration error, never a silent no-op.
func (r *Registry) Lookup(t Target) (Deployer, error) {
	d, ok := r.deployers[t]
	if !ok {
		return nil, &FatalError{Kind: UnknownTarget, Message: "no deployer registered for target " + string(t)}
	}
	return d, nil
}
