package mkcore

import (
	"fmt"
	"reflect"
	"time"
)

// Artefact represents the tangible outcome of a [Goal] being reached. A
// special case is the [Abstract] artefact.
type Artefact interface {
	// Name returns the name of the artefact that must be unique in the
	// project.
	Name(in *Project) string

	// StateAt returns the time at which the artefact reached its current
	// state. If this cannot be provided, the zero Time is returned.
	StateAt(in *Project) time.Time
}

// RemovableArtefact is an artefact that [Clean] can remove.
type RemovableArtefact interface {
	Artefact
	Exists(in *Project) (bool, error)
	Remove(in *Project) error
}

// Abstract artefacts only give a name to a goal. They never have a state
// time, so goals with an abstract artefact are never up-to-date.
type Abstract string

var _ Artefact = Abstract("")

func (a Abstract) Name(*Project) string { return string(a) }

func (a Abstract) StateAt(*Project) time.Time { return time.Time{} }

type UpdateMode uint

const (
	// All actions are run as soon as one of them is outdated.
	UpdAllActions UpdateMode = iota

	// Only the outdated actions are run.
	UpdSomeActions

	// Only the first outdated action is run.
	UpdAnyAction
)

func (m UpdateMode) String() string {
	switch m {
	case UpdAllActions:
		return "all"
	case UpdSomeActions:
		return "some"
	case UpdAnyAction:
		return "any"
	}
	return fmt.Sprintf("update-mode(%d)", uint(m))
}

// A Goal is something to achieve in a [Project]. It is reached when its
// [Artefact] is available and up-to-date. Goals are reached by the actions
// they are a result of and must be reached before the actions they are a
// premise of are run.
type Goal struct {
	UpdateMode UpdateMode
	Artefact   Artefact

	// Removable marks the artefact as something [Clean] may remove.
	Removable bool

	prj       *Project
	resultOf  []*Action
	premiseOf []*Action
	lastBuild BuildID
}

func (g *Goal) Project() *Project { return g.prj }

func (g *Goal) Name() string { return g.Artefact.Name(g.prj) }

// ResultOf returns the actions that result in this goal.
func (g *Goal) ResultOf() []*Action { return g.resultOf }

// PremiseOf returns the actions that depend on g.
func (g *Goal) PremiseOf() []*Action { return g.premiseOf }

func (g *Goal) IsAbstract() bool {
	_, ok := g.Artefact.(Abstract)
	return ok
}

func (g *Goal) String() string {
	tn := reflect.Indirect(reflect.ValueOf(g.Artefact)).Type().Name()
	return fmt.Sprintf("[%s]%s", g.Name(), tn)
}

// CheckPreTimes returns the indices of the actions in [Goal.ResultOf] that
// have to run to bring g up-to-date. An action is outdated if g has no state
// time, if it has no premises or if any premise is newer than g or has no
// state time itself.
func (g *Goal) CheckPreTimes(tr *Trace) (chgs []int) {
	gTS := g.Artefact.StateAt(g.prj)
	for i, act := range g.resultOf {
		switch {
		case gTS.IsZero():
			tr.scheduleResTimeZero(act, g)
			chgs = append(chgs, i)
			continue
		case len(act.premises) == 0:
			tr.scheduleNotPremises(act, g)
			chgs = append(chgs, i)
			continue
		}
		for _, pre := range act.premises {
			preTS := pre.Artefact.StateAt(g.prj)
			if preTS.IsZero() {
				tr.schedulePreTimeZero(act, g, pre)
				chgs = append(chgs, i)
				break
			}
			if gTS.Before(preTS) {
				tr.scheduleOutdated(act, g, pre)
				chgs = append(chgs, i)
				break
			}
		}
	}
	return chgs
}
