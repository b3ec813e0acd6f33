package mkfs

import (
	"time"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
)

// Sidecar is a file that accompanies its Subject, like a signature or a
// checksum. Its path is the path of the subject with Ext appended, e.g.
// "relmk-1.0.jar.asc".
type Sidecar struct {
	Subject File
	Ext     string
}

var _ Artefact = Sidecar{}

func Sidecars(subject File, exts ...string) []Sidecar {
	scs := make([]Sidecar, len(exts))
	for i, ext := range exts {
		scs[i] = Sidecar{Subject: subject, Ext: ext}
	}
	return scs
}

func (s Sidecar) File() File {
	if s.Ext == "" || s.Ext[0] == '.' {
		return File(s.Subject.Path() + s.Ext)
	}
	return File(s.Subject.Path() + "." + s.Ext)
}

func (s Sidecar) Path() string { return s.File().Path() }

func (s Sidecar) Name(in *mkcore.Project) string { return s.File().Name(in) }

func (s Sidecar) StateAt(in *mkcore.Project) time.Time { return s.File().StateAt(in) }

func (s Sidecar) Exists(in *mkcore.Project) (bool, error) { return s.File().Exists(in) }

func (s Sidecar) Remove(in *mkcore.Project) error { return s.File().Remove(in) }
