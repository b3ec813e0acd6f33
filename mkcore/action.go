package mkcore

import "fmt"

// An Action is something that can be done in a [Project] to reach its result
// goals. The actual work is done by the [Operation] Op. An action without an
// operation is "implicit", i.e. its results are given as soon as all its
// premises are.
type Action struct {
	Op Operation

	prj      *Project
	idx      uint
	premises []*Goal
	results  []*Goal
}

func (a *Action) Project() *Project { return a.prj }

func (a *Action) Premises() []*Goal { return a.premises }

func (a *Action) Results() []*Goal { return a.results }

func (a *Action) String() string {
	switch {
	case a == nil:
		return "<nil:Action>"
	case a.Op == nil:
		return fmt.Sprintf("implicit:%d", a.idx)
	}
	return a.Op.Describe(a, nil)
}

func (a *Action) run(tr *Trace, env *Env) error {
	if a.Op == nil {
		tr.runImplicitAction(a)
		return nil
	}
	if env.DryRun {
		tr.skipAction(a)
		return nil
	}
	tr.runAction(a)
	if err := a.Op.Do(tr, a, env); err != nil {
		return fmt.Errorf("action %s: %w", a, err)
	}
	return nil
}

// Operation implements what an [Action] does.
type Operation interface {
	// Describe returns a short human readable description. Both arguments
	// are optional hints.
	Describe(actionHint *Action, envHint *Env) string

	Do(tr *Trace, a *Action, env *Env) error
}

// OpFunc makes a simple function an [Operation].
type OpFunc struct {
	Desc string
	Fn   func(tr *Trace, a *Action, env *Env) error
}

var _ Operation = OpFunc{}

func (f OpFunc) Describe(*Action, *Env) string { return f.Desc }

func (f OpFunc) Do(tr *Trace, a *Action, env *Env) error { return f.Fn(tr, a, env) }
