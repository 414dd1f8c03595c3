package deploy

// Kind splits targets into the two halves of a typical app deployment.
type Kind string

const (
	KindFrontend Kind = "frontend"
	KindBackend  Kind = "backend"
)

// Target is a closed enumeration of supported deployment platforms.
// Dispatch is exhaustive: a name outside this set is a construction-time
// error, never a silent fallthrough.
type Target string

const (
	Vercel      Target = "vercel"
	Netlify     Target = "netlify"
	GitHubPages Target = "github-pages"
	Render      Target = "render"
	Railway     Target = "railway"
	Heroku      Target = "heroku"
)

// FrontendTargets lists the targets accepted by the frontend command.
var FrontendTargets = []Target{Vercel, Netlify, GitHubPages}

// BackendTargets lists the targets accepted by the backend command.
var BackendTargets = []Target{Render, Railway, Heroku}

// Kind returns which half of the app the target deploys.
func (t Target) Kind() Kind {
	switch t {
	case Vercel, Netlify, GitHubPages:
		return KindFrontend
	default:
		return KindBackend
	}
}

// ParseAny resolves a target name across both kinds.
func ParseAny(name string) (Target, error) {
	if t, err := ParseTarget(KindFrontend, name); err == nil {
		return t, nil
	}
	if t, err := ParseTarget(KindBackend, name); err == nil {
		return t, nil
	}
	return "", &FatalError{Kind: UnknownTarget, Message: "unknown target " + name}
}

// ParseTarget resolves a target name for the given kind. Unknown names
// and names belonging to the other kind are fatal configuration errors.
func ParseTarget(kind Kind, name string) (Target, error) {
	candidates := FrontendTargets
	if kind == KindBackend {
		candidates = BackendTargets
	}
	for _, t := range candidates {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &FatalError{
		Kind:    UnknownTarget,
		Message: "unknown " + string(kind) + " target " + name,
	}
}
