package publish

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/mkfs"
)

// ChecksumExts are the checksum sidecar extensions repositories expect.
var ChecksumExts = []string{".md5", ".sha1", ".sha256", ".sha512"}

var checksumHashes = map[string]func() hash.Hash{
	".md5":    md5.New,
	".sha1":   sha1.New,
	".sha256": sha256.New,
	".sha512": sha512.New,
}

// Checksums is the [mkcore.Operation] that writes checksum sidecars. Every
// result that is an [mkfs.Sidecar] with one of [ChecksumExts] gets the hex
// checksum of its subject. Each subject is read once.
type Checksums struct{}

var _ mkcore.Operation = Checksums{}

func (Checksums) Describe(*mkcore.Action, *mkcore.Env) string { return "checksums" }

func (Checksums) Do(tr *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	bySubject := make(map[mkfs.File][]mkfs.Sidecar)
	var subjects []mkfs.File
	for _, res := range a.Results() {
		sc, ok := res.Artefact.(mkfs.Sidecar)
		if !ok || checksumHashes[sc.Ext] == nil {
			continue
		}
		if _, ok := bySubject[sc.Subject]; !ok {
			subjects = append(subjects, sc.Subject)
		}
		bySubject[sc.Subject] = append(bySubject[sc.Subject], sc)
	}
	prj := a.Project()
	for _, subj := range subjects {
		if err := tr.Ctx().Err(); err != nil {
			return err
		}
		scs := bySubject[subj]
		env.Logger().Debug("checksum `file`", `file`, subj.Name(prj), `count`, len(scs))
		if err := writeChecksums(prj, subj, scs); err != nil {
			return err
		}
	}
	return nil
}

func writeChecksums(prj *mkcore.Project, subj mkfs.File, scs []mkfs.Sidecar) error {
	hs := make([]hash.Hash, len(scs))
	ws := make([]io.Writer, len(scs))
	for i, sc := range scs {
		hs[i] = checksumHashes[sc.Ext]()
		ws[i] = hs[i]
	}
	path, err := prj.AbsPath(subj.Path())
	if err != nil {
		return err
	}
	r, err := os.Open(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(io.MultiWriter(ws...), r)
	r.Close()
	if err != nil {
		return fmt.Errorf("checksum %s: %w", subj.Name(prj), err)
	}
	for i, sc := range scs {
		sum := hex.EncodeToString(hs[i].Sum(nil))
		if err := os.WriteFile(path+sc.Ext, []byte(sum), 0644); err != nil {
			return err
		}
	}
	return nil
}
