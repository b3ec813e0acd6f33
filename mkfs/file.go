package mkfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
)

// File is a regular file artefact.
type File string

var _ Artefact = File("")

func (f File) Path() string { return string(f) }

func (f File) Name(in *mkcore.Project) string {
	n, err := in.RelPath(f.Path())
	if err != nil {
		return filepath.Clean(f.Path())
	}
	return filepath.ToSlash(n)
}

// StateAt is the modification time of the file. Missing files and
// directories have no state time.
func (f File) StateAt(in *mkcore.Project) time.Time {
	st, err := Stat(f, in)
	if err != nil || !st.Mode().IsRegular() {
		return time.Time{}
	}
	return st.ModTime()
}

func (f File) Exists(in *mkcore.Project) (bool, error) { return Exists(f, in) }

func (f File) Remove(in *mkcore.Project) error {
	p, err := in.AbsPath(f.Path())
	if err != nil {
		return err
	}
	if err = os.Remove(p); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f File) Base() string { return filepath.Base(f.Path()) }

func (f File) Ext() string { return filepath.Ext(f.Path()) }

// WithExt replaces the extension of f with ext. An empty ext removes the
// extension.
func (f File) WithExt(ext string) File {
	path := f.Path()
	path = path[:len(path)-len(filepath.Ext(path))]
	if ext == "" {
		return File(path)
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return File(path + ext)
}
