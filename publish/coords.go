// Package publish puts release artifacts into Maven style repositories. The
// local repository is always available. A remote repository is only used when
// a target is bound to the role of the version that is published.
package publish

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"git.fractalqb.de/fractalqb/relmk/release"
)

const SnapshotSuffix = "-SNAPSHOT"

// Coordinates identify a release in a repository.
type Coordinates struct {
	Group    string
	Artifact string
	Version  string
}

// ParseCoordinates parses "group:artifact:version".
func ParseCoordinates(s string) (c Coordinates, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return c, fmt.Errorf("coordinates '%s' not group:artifact:version", s)
	}
	c = Coordinates{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	return c, c.Validate()
}

func (c Coordinates) Validate() error {
	var errs []error
	check := func(what, v string) {
		switch {
		case v == "":
			errs = append(errs, fmt.Errorf("empty %s", what))
		case strings.ContainsAny(v, "/\\:") || v == "." || v == "..":
			errs = append(errs, fmt.Errorf("illegal %s '%s'", what, v))
		}
	}
	check("group", c.Group)
	check("artifact", c.Artifact)
	check("version", c.Version)
	return errors.Join(errs...)
}

func (c Coordinates) IsSnapshot() bool { return strings.HasSuffix(c.Version, SnapshotSuffix) }

// Role is the publication role of the version.
func (c Coordinates) Role() release.Role {
	if c.IsSnapshot() {
		return release.Snapshots
	}
	return release.Releases
}

// Dir is the slash separated directory of the version in a repository.
func (c Coordinates) Dir() string {
	return path.Join(strings.ReplaceAll(c.Group, ".", "/"), c.Artifact, c.Version)
}

func (c Coordinates) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}
