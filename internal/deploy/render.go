package deploy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/prereq"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// maxHookResponse caps how much of the deploy hook response is captured.
const maxHookResponse = 4 << 10

// renderDeployer triggers a Render deploy hook with an HTTP POST. The
// hook URL is the credential; Render rebuilds from the connected repo,
// so no artifact is uploaded.
type renderDeployer struct {
	client *http.Client
	creds  config.Credentials
}

func (d *renderDeployer) Rules() []prereq.Rule {
	return []prereq.Rule{
		prereq.EnvVarSet("RENDER_DEPLOY_HOOK_URL"),
	}
}

// Deploy posts to the hook and maps the HTTP outcome onto the same
// result shape subprocess deployers produce: 2xx is exit 0, anything
// else exit 1 with the response attached.
func (d *renderDeployer) Deploy(ctx context.Context, _ string) (*runner.Result, error) {
	hookURL := d.creds.Get("RENDER_DEPLOY_HOOK_URL")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("building deploy hook request: %w", err)
	}

	client := d.client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("triggering deploy hook: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxHookResponse))

	res := &runner.Result{
		Stdout:   []byte(fmt.Sprintf("%s\n%s", resp.Status, body)),
		Duration: time.Since(start),
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.ExitCode = 1
	}
	return res, nil
}

func (d *renderDeployer) Describe() string { return "render deploy hook" }
