package header

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
)

// DefaultSkipDirs are directory names [CheckOp] does not descend into.
var DefaultSkipDirs = []string{".git", ".gradle", "build", "vendor", "testdata"}

// CheckOp is the [mkcore.Operation] that checks the headers of all supported
// files below Dirs. Missing headers fail the operation unless Fix is set,
// which adds them.
type CheckOp struct {
	Header   *Header
	Dirs     []string
	SkipDirs []string
	Fix      bool
}

var _ mkcore.Operation = CheckOp{}

func (op CheckOp) Describe(*mkcore.Action, *mkcore.Env) string {
	if op.Fix {
		return "apply license headers"
	}
	return "check license headers"
}

func (op CheckOp) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	if op.Header == nil {
		return errors.New("no license header")
	}
	prj := a.Project()
	skip := op.SkipDirs
	if skip == nil {
		skip = DefaultSkipDirs
	}
	var missing []string
	for _, dir := range op.Dirs {
		root, err := prj.AbsPath(dir)
		if err != nil {
			return err
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return err
			case d.IsDir():
				if path != root && slices.Contains(skip, d.Name()) {
					return filepath.SkipDir
				}
				return tr.Ctx().Err()
			case !d.Type().IsRegular():
				return nil
			}
			if _, ok := StyleFor(path); !ok {
				return nil
			}
			ok, err := op.Header.Check(path)
			if err != nil {
				return err
			}
			if !ok {
				rel, _ := prj.RelPath(path)
				missing = append(missing, filepath.ToSlash(rel))
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if !op.Fix {
		return fmt.Errorf("%d files without license header: %s",
			len(missing),
			strings.Join(missing, ", "),
		)
	}
	for _, m := range missing {
		path, err := prj.AbsPath(m)
		if err != nil {
			return err
		}
		if _, err := op.Header.Apply(path); err != nil {
			return err
		}
		env.Logger().Info("added license header to `file`", `file`, m)
	}
	return nil
}
