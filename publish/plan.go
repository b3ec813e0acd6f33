package publish

import (
	"git.fractalqb.de/fractalqb/relmk/release"
)

// Plan is where one version gets published.
type Plan struct {
	Coords Coordinates
	Local  Repository

	// Remote is nil if no target is bound to the role of Coords.
	Remote Repository
}

// NewPlan selects the remote repository from targets by the role of coords.
// Without a bound target remote publication is unavailable, which is not an
// error.
func NewPlan(
	targets release.Targets,
	coords Coordinates,
	local Repository,
	p release.Properties,
) (*Plan, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	plan := &Plan{Coords: coords, Local: local}
	if t, ok := targets.For(coords.Role()); ok {
		rem, err := NewRepository(t, p)
		if err != nil {
			return nil, err
		}
		plan.Remote = rem
	}
	return plan, nil
}

func (p *Plan) HasRemote() bool { return p.Remote != nil }

// Repositories returns the local and, if available, the remote repository.
func (p *Plan) Repositories() []Repository {
	if p.Remote == nil {
		return []Repository{p.Local}
	}
	return []Repository{p.Local, p.Remote}
}
