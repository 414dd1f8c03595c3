package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
)

// Credentials is a snapshot of the deployment-related environment,
// taken once at startup and passed explicitly to every component.
type Credentials map[string]string

// CredentialVars are the variables captured into the snapshot. They
// are contracts with the vendor tools, not values launchdeck interprets.
var CredentialVars = []string{
	"VERCEL_TOKEN",
	"NETLIFY_AUTH_TOKEN",
	"NETLIFY_SITE_ID",
	"GITHUB_TOKEN",
	"RENDER_DEPLOY_HOOK_URL",
	"MONGODB_URI",
	"FRONTEND_URL",
	"BACKEND_URL",
	"VITE_API_BASE_URL",
	"REACT_APP_API_BASE_URL",
}

// LoadCredentials loads the .env file from the project root (missing
// files are fine) and snapshots the known credential variables.
func LoadCredentials(root string) Credentials {
	// godotenv only sets variables that are not already set, so real
	// environment always wins over .env entries.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	creds := make(Credentials, len(CredentialVars))
	for _, name := range CredentialVars {
		if v := os.Getenv(name); v != "" {
			creds[name] = v
		}
	}
	return creds
}

// Get returns the named credential or "".
func (c Credentials) Get(name string) string {
	return c[name]
}

// Names returns the sorted names present in the snapshot.
func (c Credentials) Names() []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Pair returns a KEY=VALUE entry for passing to a child process, or ""
// when the credential is absent.
func (c Credentials) Pair(name string) string {
	if v := c[name]; v != "" {
		return name + "=" + v
	}
	return ""
}
