package sign

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/mkfs"
)

// Op is the [mkcore.Operation] that signs. Every result of the action that is
// an [mkfs.Sidecar] with [Extension] gets the signature of its subject.
// Other results are ignored.
type Op struct {
	Signer Signer
}

var _ mkcore.Operation = Op{}

func (op Op) Describe(*mkcore.Action, *mkcore.Env) string {
	if op.Signer == nil {
		return "sign"
	}
	return "sign with " + op.Signer.String()
}

func (op Op) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	if op.Signer == nil {
		return errors.New("no signer")
	}
	prj := a.Project()
	for _, res := range a.Results() {
		sc, ok := res.Artefact.(mkfs.Sidecar)
		if !ok || sc.Ext != Extension {
			continue
		}
		data, err := prj.AbsPath(sc.Subject.Path())
		if err != nil {
			return err
		}
		sig, err := prj.AbsPath(sc.Path())
		if err != nil {
			return err
		}
		env.Logger().Info("sign `file`", `file`, sc.Subject.Name(prj))
		if err := op.signFile(tr, sig, data); err != nil {
			return fmt.Errorf("sign %s: %w", sc.Subject.Name(prj), err)
		}
	}
	return nil
}

// signFile writes to a temporary file that replaces sigPath only after
// signing succeeded.
func (op Op) signFile(tr *mkcore.Trace, sigPath, dataPath string) (err error) {
	r, err := os.Open(dataPath)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := os.CreateTemp(filepath.Dir(sigPath), ".sign-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			w.Close()
			os.Remove(w.Name())
		}
	}()
	if err = op.Signer.Sign(tr.Ctx(), w, r); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	if err = os.Chmod(w.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(w.Name(), sigPath)
}
