package mkcore

import (
	"errors"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// Builder brings goals up-to-date. Premises are built depth first before the
// actions of a goal are considered. Each action runs at most once per build,
// even if it has several results. A Builder must not be used concurrently.
type Builder struct {
	trace *Trace
	env   *Env

	bid BuildID
	ran *bitset.BitSet
}

func NewBuilder(tr *Trace, env *Env) (*Builder, error) {
	if tr == nil {
		return nil, errors.New("no trace for new builder")
	}
	if env == nil {
		env = DefaultEnv(nil)
	}
	return &Builder{trace: tr, env: env}, nil
}

func (bd *Builder) Trace() *Trace { return bd.trace }

func (bd *Builder) Env() *Env { return bd.env }

// Project builds all leafs of prj.
func (bd *Builder) Project(prj *Project) error {
	return bd.build(prj, prj.Leafs())
}

// Goals builds the goals gs that all must belong to the same project.
func (bd *Builder) Goals(gs ...*Goal) error {
	if len(gs) == 0 {
		return nil
	}
	prj := gs[0].Project()
	if err := prj.owns("goal", gs[1:]); err != nil {
		return err
	}
	return bd.build(prj, gs)
}

func (bd *Builder) NamedGoals(prj *Project, names ...string) error {
	gs := make([]*Goal, 0, len(names))
	for _, n := range names {
		g := prj.FindGoal(n)
		if g == nil {
			return fmt.Errorf("no goal named '%s' in project '%s'", n, prj)
		}
		gs = append(gs, g)
	}
	return bd.build(prj, gs)
}

func (bd *Builder) build(prj *Project, gs []*Goal) error {
	bd.bid = prj.lockBuild()
	defer prj.unlock()
	bd.ran = bitset.New(uint(len(prj.actions)))

	start := time.Now()
	tr := bd.trace.push(prj)
	tr.startProject(prj, "building", bd.bid)
	defer func() { tr.doneProject(prj, "building", time.Since(start)) }()
	for _, g := range gs {
		if err := bd.buildGoal(tr, g); err != nil {
			return err
		}
	}
	return nil
}

func (bd *Builder) buildGoal(tr *Trace, g *Goal) error {
	if g.lastBuild == bd.bid {
		return nil
	}
	g.lastBuild = bd.bid

	tr = tr.push(g)
	tr.checkGoal(g)
	if len(g.resultOf) == 0 {
		return nil
	}
	for _, act := range g.resultOf {
		for _, pre := range act.premises {
			if err := bd.buildGoal(tr, pre); err != nil {
				return err
			}
		}
	}
	if err := tr.Ctx().Err(); err != nil {
		return err
	}

	chgs := g.CheckPreTimes(tr)
	if len(chgs) == 0 {
		tr.goalUpToDate(g)
		return nil
	}
	switch g.UpdateMode {
	case UpdAllActions:
		chgs = chgs[:0]
		for i := range g.resultOf {
			chgs = append(chgs, i)
		}
	case UpdSomeActions:
	case UpdAnyAction:
		chgs = chgs[:1]
	default:
		return fmt.Errorf("goal %s has illegal update mode %s", g, g.UpdateMode)
	}
	tr.goalNeedsActions(g, len(chgs))
	for _, i := range chgs {
		if err := bd.runOnce(tr, g.resultOf[i]); err != nil {
			return err
		}
	}
	return nil
}

func (bd *Builder) runOnce(tr *Trace, a *Action) error {
	if bd.ran.Test(a.idx) {
		return nil
	}
	bd.ran.Set(a.idx)
	return a.run(tr.push(a), bd.env)
}

// Ran reports whether a was run (or skipped in dry run mode) by the last
// build.
func (bd *Builder) Ran(a *Action) bool {
	return bd.ran != nil && bd.ran.Test(a.idx)
}
