package mkcore

import (
	"testing"
	"time"
)

type testTracer struct{ t *testing.T }

var _ Tracer = testTracer{}

func (tr testTracer) Debug(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{t, "DEBUG", msg}, args...)...)
}

func (tr testTracer) Info(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{t, "INFO", msg}, args...)...)
}

func (tr testTracer) Warn(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{t, "WARN", msg}, args...)...)
}

func (tr testTracer) StartProject(t *Trace, p *Project, activity string) {
	tr.t.Logf("%s { %s %s", t, activity, p)
}

func (tr testTracer) DoneProject(t *Trace, p *Project, activity string, dt time.Duration) {
	tr.t.Logf("%s } %s %s took %s", t, activity, p, dt)
}

func (tr testTracer) RunAction(t *Trace, a *Action) { tr.t.Logf("%s run %s", t, a) }

func (tr testTracer) RunImplicitAction(t *Trace, a *Action) { tr.t.Logf("%s implicit %s", t, a) }

func (tr testTracer) SkipAction(t *Trace, a *Action) { tr.t.Logf("%s skip %s", t, a) }

func (tr testTracer) ScheduleResTimeZero(t *Trace, a *Action, res *Goal) {
	tr.t.Logf("%s schedule %s: %s has no time", t, a, res)
}

func (tr testTracer) ScheduleNotPremises(t *Trace, a *Action, res *Goal) {
	tr.t.Logf("%s schedule %s without premises for %s", t, a, res)
}

func (tr testTracer) SchedulePreTimeZero(t *Trace, a *Action, res, pre *Goal) {
	tr.t.Logf("%s schedule %s: %s > %s has no time", t, a, pre, res)
}

func (tr testTracer) ScheduleOutdated(t *Trace, a *Action, res, pre *Goal) {
	tr.t.Logf("%s schedule %s: %s newer than %s", t, a, pre, res)
}

func (tr testTracer) CheckGoal(t *Trace, g *Goal) { tr.t.Logf("%s ? %s", t, g) }

func (tr testTracer) GoalUpToDate(t *Trace, g *Goal) { tr.t.Logf("%s . %s", t, g) }

func (tr testTracer) GoalNeedsActions(t *Trace, g *Goal, n int) {
	tr.t.Logf("%s ! %s needs %d", t, g, n)
}

func (tr testTracer) RemoveArtefact(t *Trace, g *Goal) { tr.t.Logf("%s remove %s", t, g) }
