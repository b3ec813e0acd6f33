package relmk

import (
	"errors"
	"fmt"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
)

type (
	Project  = mkcore.Project
	Goal     = mkcore.Goal
	Action   = mkcore.Action
	Abstract = mkcore.Abstract
)

// Edit calls do with wrappers of [mkcore] types that allow easy editing of
// project definitions. Edit recovers from any panic and returns it as an
// error, so the idiomatic error handling within do can be skipped.
func Edit(prj *Project, do func(ProjectEd)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			switch p := p.(type) {
			case error:
				err = p
			case string:
				err = errors.New(p)
			default:
				err = fmt.Errorf("panic: %+v", p)
			}
		}
	}()
	do(ProjectEd{prj})
	return nil
}

// ProjectEd is used with [Edit].
type ProjectEd struct{ p *Project }

func (ed ProjectEd) Project() *Project { return ed.p }

func (ed ProjectEd) Goal(atf mkcore.Artefact) GoalEd {
	return GoalEd{must(ed.p.Goal(atf))}
}

func (ed ProjectEd) NewAction(premises, results []GoalEd, op mkcore.Operation) *Action {
	return must(ed.p.NewAction(goals(premises), goals(results), op))
}

// GoalEd is used with [Edit].
type GoalEd struct{ g *Goal }

func (ed GoalEd) Goal() *Goal { return ed.g }

func (ed GoalEd) Name() string { return ed.g.Name() }

func (ed GoalEd) SetUpdateMode(m mkcore.UpdateMode) GoalEd {
	ed.g.UpdateMode = m
	return ed
}

// Removable lets [mkcore.Clean] remove the goal's artefact.
func (ed GoalEd) Removable() GoalEd {
	ed.g.Removable = true
	return ed
}

// By adds an action with operation op that has premises and the result ed.
func (ed GoalEd) By(op mkcore.Operation, premises ...GoalEd) GoalEd {
	must(ed.g.Project().NewAction(goals(premises), []*Goal{ed.g}, op))
	return ed
}

// ImpliedBy adds an implicit action from premises to ed.
func (ed GoalEd) ImpliedBy(premises ...GoalEd) GoalEd {
	must(ed.g.Project().NewAction(goals(premises), []*Goal{ed.g}, nil))
	return ed
}

func goals(eds []GoalEd) []*Goal {
	if len(eds) == 0 {
		return nil
	}
	gs := make([]*Goal, len(eds))
	for i, ed := range eds {
		gs[i] = ed.g
	}
	return gs
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
