package mkfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
)

// DirList is the flat list of entries in directory Dir accepted by Filter. A
// nil Filter accepts every entry.
type DirList struct {
	Dir    string
	Filter Filter
}

var _ mkcore.Artefact = DirList{}

func (d DirList) Path() string { return d.Dir }

func (d DirList) Name(in *mkcore.Project) string {
	n, err := in.RelPath(d.Dir)
	if err != nil {
		n = filepath.Clean(d.Dir)
	}
	return filepath.ToSlash(n) + "/"
}

// StateAt is the latest modification time of the listed entries.
func (d DirList) StateAt(in *mkcore.Project) (t time.Time) {
	d.ls(in, func(_ string, e fs.DirEntry) error {
		if info, err := e.Info(); err == nil && info.ModTime().After(t) {
			t = info.ModTime()
		}
		return nil
	})
	return t
}

// Files returns the accepted regular files sorted by name.
func (d DirList) Files(in *mkcore.Project) (ls []File, err error) {
	err = d.ls(in, func(p string, e fs.DirEntry) error {
		if e.Type().IsRegular() {
			ls = append(ls, File(p))
		}
		return nil
	})
	return ls, err
}

// Goals returns the goals of the accepted regular files in project in.
func (d DirList) Goals(in *mkcore.Project) (gs []*mkcore.Goal, err error) {
	files, err := d.Files(in)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		g, err := in.Goal(f)
		if err != nil {
			return nil, err
		}
		gs = append(gs, g)
	}
	return gs, nil
}

func (d DirList) ls(in *mkcore.Project, do func(p string, e fs.DirEntry) error) error {
	dir, err := in.AbsPath(d.Dir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", d.Dir, err)
	}
	for _, e := range entries {
		p := filepath.Join(d.Dir, e.Name())
		if d.Filter != nil {
			if ok, err := d.Filter.Ok(p, e); err != nil {
				return err
			} else if !ok {
				continue
			}
		}
		if err := do(p, e); err != nil {
			return err
		}
	}
	return nil
}
