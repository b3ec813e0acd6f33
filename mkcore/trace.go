package mkcore

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

type TracerCommon interface {
	Debug(t *Trace, msg string, args ...any)
	Info(t *Trace, msg string, args ...any)
	Warn(t *Trace, msg string, args ...any)

	StartProject(t *Trace, p *Project, activity string)
	DoneProject(t *Trace, p *Project, activity string, dt time.Duration)
}

type BuildTracer interface {
	TracerCommon

	RunAction(t *Trace, a *Action)
	RunImplicitAction(t *Trace, a *Action)
	SkipAction(t *Trace, a *Action)

	ScheduleResTimeZero(t *Trace, a *Action, res *Goal)
	ScheduleNotPremises(t *Trace, a *Action, res *Goal)
	SchedulePreTimeZero(t *Trace, a *Action, res, pre *Goal)
	ScheduleOutdated(t *Trace, a *Action, res, pre *Goal)

	CheckGoal(t *Trace, g *Goal)
	GoalUpToDate(t *Trace, g *Goal)
	GoalNeedsActions(t *Trace, g *Goal, n int)
}

type CleanTracer interface {
	TracerCommon

	RemoveArtefact(t *Trace, g *Goal)
}

// Tracer receives the progress of builds and cleanups.
type Tracer interface {
	BuildTracer
	CleanTracer
}

type TraceLog int

const (
	TraceWarn TraceLog = (1 << iota)
	TraceInfo
	TraceDebug
)

// Trace is the position of an activity in the build graph. Traces form a
// stack from the project down to the goal currently handled.
type Trace struct {
	root *traceRoot
	up   *Trace
	obj  any
	id   uint64
}

// NewTrace starts tracing with tracer t. A nil t discards everything.
func NewTrace(ctx context.Context, t Tracer) *Trace {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = discardTracer{}
	}
	return &Trace{root: &traceRoot{ctx: ctx, tr: t}}
}

func (t *Trace) Ctx() context.Context { return t.root.ctx }

func (t *Trace) Debug(msg string, args ...any) { t.root.tr.Debug(t, msg, args...) }
func (t *Trace) Info(msg string, args ...any)  { t.root.tr.Info(t, msg, args...) }
func (t *Trace) Warn(msg string, args ...any)  { t.root.tr.Warn(t, msg, args...) }

// Build returns the ID of the build currently traced or 0.
func (t *Trace) Build() BuildID { return t.root.build.Load() }

func (t *Trace) TopID() uint64 { return t.id }

func (t *Trace) TopTag() string {
	switch t.obj.(type) {
	case *Goal:
		return fmt.Sprintf("[%d]", t.id)
	case *Action:
		return fmt.Sprintf("(%d)", t.id)
	case *Project:
		return fmt.Sprintf("{%d}", t.id)
	case nil:
		return ""
	}
	return fmt.Sprintf("!%T!", t.obj)
}

func (t *Trace) Path() string {
	var sb strings.Builder
	sb.WriteByte('<')
	for ; t != nil; t = t.up {
		sb.WriteString(t.TopTag())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t *Trace) String() string {
	return fmt.Sprintf("%d@%s", t.Build(), t.Path())
}

func (t *Trace) push(obj any) *Trace {
	return &Trace{
		root: t.root,
		up:   t,
		obj:  obj,
		id:   t.root.idSeq.Add(1),
	}
}

func (t *Trace) startProject(p *Project, activity string, bid BuildID) {
	t.root.build.Store(bid)
	t.root.tr.StartProject(t, p, activity)
}

func (t *Trace) doneProject(p *Project, activity string, dt time.Duration) {
	t.root.tr.DoneProject(t, p, activity, dt)
	t.root.build.Store(0)
}

func (t *Trace) runAction(a *Action)         { t.root.tr.RunAction(t, a) }
func (t *Trace) runImplicitAction(a *Action) { t.root.tr.RunImplicitAction(t, a) }
func (t *Trace) skipAction(a *Action)        { t.root.tr.SkipAction(t, a) }

func (t *Trace) scheduleResTimeZero(a *Action, res *Goal) {
	t.root.tr.ScheduleResTimeZero(t, a, res)
}

func (t *Trace) scheduleNotPremises(a *Action, res *Goal) {
	t.root.tr.ScheduleNotPremises(t, a, res)
}

func (t *Trace) schedulePreTimeZero(a *Action, res, pre *Goal) {
	t.root.tr.SchedulePreTimeZero(t, a, res, pre)
}

func (t *Trace) scheduleOutdated(a *Action, res, pre *Goal) {
	t.root.tr.ScheduleOutdated(t, a, res, pre)
}

func (t *Trace) checkGoal(g *Goal)               { t.root.tr.CheckGoal(t, g) }
func (t *Trace) goalUpToDate(g *Goal)            { t.root.tr.GoalUpToDate(t, g) }
func (t *Trace) goalNeedsActions(g *Goal, n int) { t.root.tr.GoalNeedsActions(t, g, n) }
func (t *Trace) removeArtefact(g *Goal)          { t.root.tr.RemoveArtefact(t, g) }

type traceRoot struct {
	ctx   context.Context
	tr    Tracer
	build atomic.Uint64
	idSeq atomic.Uint64
}

type discardTracer struct{}

func (discardTracer) Debug(*Trace, string, ...any)                        {}
func (discardTracer) Info(*Trace, string, ...any)                         {}
func (discardTracer) Warn(*Trace, string, ...any)                         {}
func (discardTracer) StartProject(*Trace, *Project, string)               {}
func (discardTracer) DoneProject(*Trace, *Project, string, time.Duration) {}
func (discardTracer) RunAction(*Trace, *Action)                           {}
func (discardTracer) RunImplicitAction(*Trace, *Action)                   {}
func (discardTracer) SkipAction(*Trace, *Action)                          {}
func (discardTracer) ScheduleResTimeZero(*Trace, *Action, *Goal)          {}
func (discardTracer) ScheduleNotPremises(*Trace, *Action, *Goal)          {}
func (discardTracer) SchedulePreTimeZero(*Trace, *Action, *Goal, *Goal)   {}
func (discardTracer) ScheduleOutdated(*Trace, *Action, *Goal, *Goal)      {}
func (discardTracer) CheckGoal(*Trace, *Goal)                             {}
func (discardTracer) GoalUpToDate(*Trace, *Goal)                          {}
func (discardTracer) GoalNeedsActions(*Trace, *Goal, int)                 {}
func (discardTracer) RemoveArtefact(*Trace, *Goal)                        {}
