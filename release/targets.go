package release

import (
	"fmt"
	"net/url"
)

// Role is what a publication target is used for.
type Role int

const (
	Snapshots Role = iota
	Releases
)

func (r Role) String() string {
	switch r {
	case Snapshots:
		return "snapshots"
	case Releases:
		return "releases"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Target is a named remote repository endpoint.
type Target struct {
	Name string
	URL  string
}

// String redacts a password that is part of the URL.
func (t Target) String() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return t.Name + "@<invalid URL>"
	}
	return t.Name + "@" + u.Redacted()
}

// Targets binds the [Snapshots] and [Releases] roles to remote targets.
// Either both roles are bound or none.
type Targets struct {
	snapshots, releases *Target
}

// Bind returns Targets with both roles bound to t.
func Bind(t Target) Targets {
	return Targets{snapshots: &t, releases: &t}
}

func (ts Targets) For(r Role) (Target, bool) {
	var t *Target
	switch r {
	case Snapshots:
		t = ts.snapshots
	case Releases:
		t = ts.releases
	}
	if t == nil {
		return Target{}, false
	}
	return *t, true
}

// Bindings returns the number of bound roles.
func (ts Targets) Bindings() (n int) {
	if ts.snapshots != nil {
		n++
	}
	if ts.releases != nil {
		n++
	}
	return n
}

// Endpoints returns the distinct targets.
func (ts Targets) Endpoints() []Target {
	var eps []Target
	if ts.snapshots != nil {
		eps = append(eps, *ts.snapshots)
	}
	if ts.releases != nil && (ts.snapshots == nil || *ts.releases != *ts.snapshots) {
		eps = append(eps, *ts.releases)
	}
	return eps
}

func (ts Targets) String() string {
	if ts.Bindings() == 0 {
		return "no remote targets"
	}
	return fmt.Sprintf("snapshots→%s releases→%s", ts.snapshots, ts.releases)
}

// ResolveTargets binds both roles to the repository named by n if the
// repository property is present. Otherwise no target is bound.
func ResolveTargets(p Properties, n Names) Targets {
	u, ok := repositoryURL(p, n)
	if !ok {
		return Targets{}
	}
	return Bind(Target{Name: n.TargetName, URL: u})
}

func repositoryURL(p Properties, n Names) (string, bool) {
	if n.RepositoryRef != "" {
		if ref, ok := p.Get(n.RepositoryRef); ok {
			return p.Get(ref)
		}
	}
	if n.Repository == "" {
		return "", false
	}
	return p.Get(n.Repository)
}
