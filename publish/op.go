package publish

import (
	"errors"
	"fmt"
	"os"
	"path"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/mkfs"
)

// Op is the [mkcore.Operation] that publishes the file premises of its action
// to Repo. Files are put into the directory of Coords by their base name.
// Other premises are ignored.
type Op struct {
	Repo   Repository
	Coords Coordinates
}

var _ mkcore.Operation = Op{}

func (op Op) Describe(*mkcore.Action, *mkcore.Env) string {
	if op.Repo == nil {
		return "publish " + op.Coords.String()
	}
	return fmt.Sprintf("publish %s to %s", op.Coords, op.Repo)
}

func (op Op) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	if op.Repo == nil {
		return errors.New("no repository to publish to")
	}
	prj := a.Project()
	dir := op.Coords.Dir()
	for _, pre := range a.Premises() {
		fa, ok := pre.Artefact.(mkfs.Artefact)
		if !ok {
			continue
		}
		src, err := prj.AbsPath(fa.Path())
		if err != nil {
			return err
		}
		dst := path.Join(dir, path.Base(fa.Name(prj)))
		env.Logger().Info("publish `file` to `repository`",
			`file`, fa.Name(prj),
			`repository`, op.Repo.String(),
		)
		if err := op.put(tr, dst, src); err != nil {
			return fmt.Errorf("publish %s: %w", fa.Name(prj), err)
		}
	}
	return nil
}

func (op Op) put(tr *mkcore.Trace, dst, src string) error {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()
	st, err := r.Stat()
	if err != nil {
		return err
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}
	return op.Repo.Put(tr.Ctx(), dst, r, st.Size())
}
