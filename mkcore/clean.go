package mkcore

import "time"

// Clean removes the removable artefacts of all goals of prj that are the
// result of some action. Failures to remove are reported as warnings.
func Clean(prj *Project, dryrun bool, tr *Trace) error {
	bid := prj.lockBuild()
	defer prj.unlock()
	start := time.Now()
	tr = tr.push(prj)
	tr.startProject(prj, "cleaning", bid)
	defer func() { tr.doneProject(prj, "cleaning", time.Since(start)) }()
	for _, g := range prj.Goals() {
		if len(g.resultOf) == 0 || !g.Removable {
			continue
		}
		ra, ok := g.Artefact.(RemovableArtefact)
		if !ok {
			continue
		}
		gtr := tr.push(g)
		switch exists, err := ra.Exists(prj); {
		case err != nil:
			gtr.Warn("cannot check `artefact`: `error`", `artefact`, g.Name(), `error`, err)
			continue
		case !exists:
			continue
		}
		gtr.removeArtefact(g)
		if dryrun {
			continue
		}
		if err := ra.Remove(prj); err != nil {
			gtr.Warn("remove `artefact`: `error`", `artefact`, g.Name(), `error`, err)
		}
	}
	return nil
}
