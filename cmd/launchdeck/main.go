// Command launchdeck deploys a web app workspace to a vendor platform
// and verifies the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/launchdeck/launchdeck"
	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/deploy"
	"github.com/launchdeck/launchdeck/internal/health"
	"github.com/launchdeck/launchdeck/internal/history"
	deckmcp "github.com/launchdeck/launchdeck/internal/mcp"
	"github.com/launchdeck/launchdeck/internal/report"
	"github.com/launchdeck/launchdeck/internal/runner"
)

// dataDirName is where run reports and history live, under the project root.
const dataDirName = ".launchdeck.d"

func main() {
	log.SetFlags(0)
	log.SetPrefix("launchdeck: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "frontend":
		err = deployMain(deploy.KindFrontend, string(deploy.Vercel), args)
	case "backend":
		err = deployMain(deploy.KindBackend, string(deploy.Render), args)
	case "history":
		err = historyMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(launchdeck.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "launchdeck: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: launchdeck <command> [flags] [target] [environment]

Commands:
  frontend    Deploy the frontend (vercel, netlify, github-pages; default vercel)
  backend     Deploy the backend (render, railway, heroku; default render)
  history     List recent deployment runs
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Environment is production (default) or staging.
Exit status is 1 on a fatal error; warnings alone exit 0.

Use "launchdeck <command> -h" for command-specific flags.`)
}

// --- frontend / backend ---

func deployMain(kind deploy.Kind, defaultTarget string, args []string) error {
	fs := flag.NewFlagSet(string(kind), flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output the run report as JSON")
	timeoutFlag := fs.Duration("timeout", 0, "override configured per-command timeout (e.g. 5m)")
	verbose := fs.Bool("v", false, "include captured command output for failed steps")
	_ = fs.Parse(args)

	rest := fs.Args()
	targetName := defaultTarget
	if len(rest) > 0 {
		targetName = rest[0]
	}
	environment := "production"
	if len(rest) > 1 {
		environment = rest[1]
	}
	if environment != "production" && environment != "staging" {
		return fmt.Errorf("unknown environment %q (want production or staging)", environment)
	}

	target, err := deploy.ParseTarget(kind, targetName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, cleanup, err := newEngine(environment, *timeoutFlag)
	if err != nil {
		return err
	}
	defer cleanup()

	if !*jsonFlag {
		eng.Progress = os.Stderr
	}

	rep, deployErr := eng.Deploy(ctx, target, environment)

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		fmt.Print(formatRunCLI(rep, *verbose))
	}

	return deployErr
}

// newEngine wires a deployment engine from the current directory's
// configuration. The returned cleanup closes the history store.
func newEngine(environment string, timeoutOverride time.Duration) (*deploy.Engine, func(), error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config
	creds := config.LoadCredentials(loaded.RepoRoot)

	timeout := cfg.Timeout()
	if timeoutOverride > 0 {
		timeout = timeoutOverride
	}

	r := &runner.Runner{
		Workspace: loaded.RepoRoot,
		Timeout:   timeout,
		MaxOutput: cfg.MaxOutputBytes(),
		Env:       credentialEnv(creds),
	}

	dataDir := filepath.Join(loaded.RepoRoot, dataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	eng := &deploy.Engine{
		Config:   cfg,
		Creds:    creds,
		Runner:   r,
		Registry: deploy.NewRegistry(cfg, creds, r, nil, environment == "production"),
		Poller: &health.Poller{
			Interval:    cfg.Health.Interval(),
			MaxAttempts: cfg.Health.MaxAttempts(),
		},
		Store:     report.NewDiskStore(filepath.Join(dataDir, "runs")),
		Workspace: loaded.RepoRoot,
	}

	cleanup := func() {}
	hist, err := history.Open(filepath.Join(dataDir, "history.db"))
	if err != nil {
		// History is bookkeeping; a broken database must not block deploys.
		log.Printf("WARN: run history unavailable: %v", err)
	} else {
		eng.History = hist
		cleanup = func() { hist.Close() }
	}

	return eng, cleanup, nil
}

// credentialEnv converts the snapshot into child process env entries.
func credentialEnv(creds config.Credentials) []string {
	var env []string
	for _, name := range creds.Names() {
		if pair := creds.Pair(name); pair != "" {
			env = append(env, pair)
		}
	}
	return env
}

func formatRunCLI(rep *report.RunReport, verbose bool) string {
	var b []byte
	w := func(format string, args ...any) {
		b = fmt.Appendf(b, format, args...)
	}

	if rep.Status == report.StatusSuccess {
		w("ok %s (%s)\n", rep.Target, rep.Environment)
	} else {
		w("FAIL %s (%s)\n", rep.Target, rep.Environment)
	}
	w("run: %s\n\n", rep.ID)

	for _, s := range rep.Steps {
		switch s.Status {
		case "pass":
			w("  %-10s ok\n", s.Name)
		case "fail":
			w("  %-10s FAIL (exit %d)\n", s.Name, s.ExitCode)
			if verbose && s.Output != "" {
				w("%s", indent(s.Output))
			}
		case "skipped":
			w("  %-10s -\n", s.Name)
		}
	}
	if len(rep.Steps) > 0 {
		w("\n")
	}

	if rep.Artifact != "" {
		w("artifact: %s\n", rep.Artifact)
	}
	if rep.Deploy != nil {
		w("deploy: %s (exit %d)\n", rep.Deploy.Action, rep.Deploy.ExitCode)
		if verbose && rep.Deploy.Output != "" {
			w("%s", indent(rep.Deploy.Output))
		}
	}
	if rep.Health != nil {
		w("health: %s", rep.Health.Outcome)
		if rep.Health.Attempts > 0 {
			w(" after %d attempt(s)", rep.Health.Attempts)
		}
		w("\n")
	}

	for _, warn := range rep.Warnings {
		if warn.Step != "" {
			w("WARN: %s: %s\n", warn.Step, warn.Message)
		} else {
			w("WARN: %s\n", warn.Message)
		}
	}

	if len(rep.Followups) > 0 {
		w("\ncheck manually:\n")
		for _, f := range rep.Followups {
			w("  - %s\n", f)
		}
	}

	return string(b)
}

// indent prefixes every non-empty line of captured command output.
func indent(out string) string {
	var b []byte
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		b = fmt.Appendf(b, "    | %s\n", line)
	}
	return string(b)
}

// --- history ---

func historyMain(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limitFlag := fs.Int("n", 20, "number of runs to show")
	_ = fs.Parse(args)

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := history.Open(filepath.Join(loaded.RepoRoot, dataDirName, "history.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(*limitFlag)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, e := range entries {
		status := e.Status
		if e.Status == "success" && e.Health == "healthy" {
			status = "success+healthy"
		}
		fmt.Printf("%s  %-16s %-12s %-10s %-16s %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04"),
			status, e.Target, e.Environment, e.Duration, e.ID)
	}
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(deckmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr)
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config
	creds := config.LoadCredentials(loaded.RepoRoot)

	r := &runner.Runner{
		Workspace: loaded.RepoRoot,
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
		Env:       credentialEnv(creds),
	}

	dataDir := filepath.Join(loaded.RepoRoot, dataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	store := report.NewLRUStore(5, report.NewDiskStore(filepath.Join(dataDir, "runs")))

	var hist deploy.HistoryRecorder
	if h, err := history.Open(filepath.Join(dataDir, "history.db")); err == nil {
		hist = h
		defer h.Close()
	} else {
		log.Printf("WARN: run history unavailable: %v", err)
	}

	server := deckmcp.NewServer(cfg, creds, r, store, hist, loaded.RepoRoot)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
