// Package mkfs has the file system artefacts of release builds.
package mkfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
)

// Artefact is a removable artefact with a path in the file system. Relative
// paths are relative to the project directory.
type Artefact interface {
	mkcore.RemovableArtefact
	Path() string
}

func Stat(a Artefact, in *mkcore.Project) (fs.FileInfo, error) {
	p, err := in.AbsPath(a.Path())
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

func Exists(a Artefact, in *mkcore.Project) (bool, error) {
	_, err := Stat(a, in)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, err
}

// CopyFile copies the regular file src to dst creating the directories of
// dst with mode dirMode if needed. The file mode of src is kept.
func CopyFile(dst, src string, dirMode fs.FileMode) (err error) {
	st, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}
	if err = os.MkdirAll(filepath.Dir(dst), dirMode); err != nil {
		return err
	}
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()
	_, err = io.Copy(w, r)
	return err
}
