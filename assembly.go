package relmk

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"

	"git.fractalqb.de/fractalqb/relmk/header"
	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/mkfs"
	"git.fractalqb.de/fractalqb/relmk/props"
	"git.fractalqb.de/fractalqb/relmk/publish"
	"git.fractalqb.de/fractalqb/relmk/release"
	"git.fractalqb.de/fractalqb/relmk/sign"
)

// Names of the goals a [Release] creates.
const (
	GoalSign         = "sign"
	GoalChecksums    = "checksums"
	GoalPublishLocal = "publishLocal"
	GoalPublish      = "publish"
	GoalCheckLicense = "checkLicense"
	GoalApplyLicense = "applyLicense"
	GoalRelease      = "release"
)

const DefaultDist = "dist"

// Release is the configuration of one release pass.
type Release struct {
	// Dir is the project root. Key locators and HEADER.txt are relative to
	// it.
	Dir string

	// Name is used for the ${name} placeholder of the license header. It
	// defaults to the artifact ID.
	Name string

	Coords publish.Coordinates

	// Dist is the directory with the files to release. Signatures and
	// checksums in Dist are not released as files of their own.
	Dist string

	Props *props.Set
	Names release.Names

	// LocalRepo is the directory of the local repository. Empty selects
	// [publish.DefaultLocalDir].
	LocalRepo string

	// LicenseDirs are checked for license headers. Defaults to the project
	// root.
	LicenseDirs []string

	// Files is used to resolve the signing key. Nil uses the OS.
	Files release.Files

	resolveOnce sync.Once
	resolver    *release.Resolver
}

// Resolver returns the release decisions of r. It is created once, so the
// decisions are made at most once per Release.
func (r *Release) Resolver() *release.Resolver {
	r.resolveOnce.Do(func() {
		r.resolver = release.NewResolver(r.Props, r.Names, r.Dir, r.Files)
	})
	return r.resolver
}

// Project creates the build graph of the release. Properties for the
// operations are taken from env.
func (r *Release) Project(env *mkcore.Env) (*mkcore.Project, error) {
	if err := r.Names.Validate(); err != nil {
		return nil, err
	}
	if r.Props == nil {
		r.Props = props.New("empty", nil)
	}
	rsv := r.Resolver()
	decision, err := rsv.Signing()
	if err != nil {
		return nil, err
	}
	env.Logger().Info("signing with `decision`", `decision`, decision.String())
	signer := sign.NewDeferred(decision, env, r.Dir)
	targets := rsv.Targets()
	env.Logger().Info("publication `targets`", `targets`, targets.String())
	localDir := r.LocalRepo
	if localDir == "" {
		if localDir, err = publish.DefaultLocalDir(); err != nil {
			return nil, err
		}
	}
	plan, err := publish.NewPlan(targets, r.Coords, &publish.Local{Dir: localDir}, r.Props)
	if err != nil {
		return nil, err
	}
	hdr, err := r.licenseHeader()
	if err != nil {
		return nil, err
	}

	prj := mkcore.NewProject(r.Dir)
	dist := mkfs.DirList{
		Dir:    r.dist(),
		Filter: mkfs.Not(mkfs.ExtIn(append([]string{sign.Extension}, publish.ChecksumExts...))),
	}
	files, err := dist.Files(prj)
	if err != nil {
		return nil, err
	}
	var genPOM mkfs.File
	if !slices.ContainsFunc(files, func(f mkfs.File) bool { return f.Ext() == ".pom" }) {
		genPOM = mkfs.File(filepath.Join(r.dist(), r.Coords.POMName()))
		files = append(files, genPOM)
	}
	err = Edit(prj, func(prj ProjectEd) {
		signGoal := prj.Goal(Abstract(GoalSign))
		sumsGoal := prj.Goal(Abstract(GoalChecksums))
		var published []GoalEd
		for _, f := range files {
			fg := prj.Goal(f)
			if f == genPOM {
				fg.Removable().By(publish.POMOp{POM: publish.NewPOM(r.Coords, r.Props)})
			}
			asc := prj.Goal(mkfs.Sidecar{Subject: f, Ext: sign.Extension}).
				Removable().
				By(sign.Op{Signer: signer}, fg)
			signGoal.ImpliedBy(asc)
			var sums []GoalEd
			for _, sc := range mkfs.Sidecars(f, publish.ChecksumExts...) {
				sums = append(sums, prj.Goal(sc).Removable())
			}
			prj.NewAction([]GoalEd{fg}, sums, publish.Checksums{})
			sumsGoal.ImpliedBy(sums...)
			published = append(published, fg, asc)
			published = append(published, sums...)
		}
		if len(files) == 0 {
			signGoal.ImpliedBy()
			sumsGoal.ImpliedBy()
		}

		var all []GoalEd
		all = append(all, prj.Goal(Abstract(GoalPublishLocal)).By(
			publish.Op{Repo: plan.Local, Coords: r.Coords},
			published...,
		))
		if plan.HasRemote() {
			all = append(all, prj.Goal(Abstract(GoalPublish)).By(
				publish.Op{Repo: plan.Remote, Coords: r.Coords},
				published...,
			))
		}
		if hdr != nil {
			all = append(all, prj.Goal(Abstract(GoalCheckLicense)).By(
				header.CheckOp{Header: hdr, Dirs: r.licenseDirs()},
			))
			prj.Goal(Abstract(GoalApplyLicense)).By(
				header.CheckOp{Header: hdr, Dirs: r.licenseDirs(), Fix: true},
			)
		}
		prj.Goal(Abstract(GoalRelease)).ImpliedBy(all...)
	})
	if err != nil {
		return nil, err
	}
	return prj, nil
}

func (r *Release) dist() string {
	if r.Dist == "" {
		return DefaultDist
	}
	return r.Dist
}

func (r *Release) licenseDirs() []string {
	if len(r.LicenseDirs) == 0 {
		return []string{"."}
	}
	return r.LicenseDirs
}

// licenseHeader returns nil if the project has no header template. The
// template's ${organization} and ${url} come from the properties
// [header.PropOrganization] and [header.PropProjectURL], any other
// placeholder from the property with the same name.
func (r *Release) licenseHeader() (*header.Header, error) {
	tmpl, err := header.LoadTemplate(filepath.Join(r.Dir, header.DefaultFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	}
	name := r.Name
	if name == "" {
		name = r.Coords.Artifact
	}
	hdr, err := header.New(tmpl, func(key string) (string, bool) {
		switch key {
		case "name":
			return name, true
		case "organization":
			return r.Props.Get(header.PropOrganization)
		case "url":
			return r.Props.Get(header.PropProjectURL)
		}
		return r.Props.Get(key)
	})
	if err != nil {
		return nil, fmt.Errorf("license header: %w", err)
	}
	return hdr, nil
}
