package relmk

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/qblog"
	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/sllm/v3"
)

// WriteTracer writes build progress as lines of text to W. Log selects which
// messages are written.
type WriteTracer struct {
	W   io.Writer
	Log mkcore.TraceLog
}

var _ mkcore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() *WriteTracer {
	return &WriteTracer{W: os.Stderr, Log: mkcore.TraceWarn}
}

func (tr *WriteTracer) ParseLogFlag(f string) error {
	switch f {
	case "":
		return nil
	case "off":
		tr.Log = 0
	case "warn", "w":
		tr.Log = mkcore.TraceWarn
	case "info", "i":
		tr.Log = mkcore.TraceWarn | mkcore.TraceInfo
	case "debug", "d":
		tr.Log = mkcore.TraceWarn | mkcore.TraceInfo | mkcore.TraceDebug
	default:
		return fmt.Errorf("write tracer: illegal log flag '%s'", f)
	}
	return nil
}

// Level is the slog level matching tr.Log. With logging off it is above
// every level in use.
func (tr *WriteTracer) Level() slog.Level {
	switch {
	case tr.Log&mkcore.TraceDebug != 0:
		return slog.LevelDebug
	case tr.Log&mkcore.TraceInfo != 0:
		return slog.LevelInfo
	case tr.Log&mkcore.TraceWarn != 0:
		return slog.LevelWarn
	}
	return slog.LevelError + 1
}

// Logger returns a logger for operation messages that writes to w with the
// level of tr. Messages are sllm templates.
func (tr *WriteTracer) Logger(w io.Writer) *qblog.Logger {
	cfg := qblog.DefaultConfig.Clone().
		SetWriter(w).
		SetLevel(qblog.Level(tr.Level()))
	return qblog.New(cfg)
}

func (tr *WriteTracer) on(l mkcore.TraceLog) bool { return tr.Log >= l }

func (tr *WriteTracer) msg(t *mkcore.Trace, level, msg string, args []any) {
	fmt.Fprintf(tr.W, "%d@%s\t  %-5s ", t.Build(), t.TopTag(), level)
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

func (tr *WriteTracer) line(t *mkcore.Trace, format string, args ...any) {
	fmt.Fprintf(tr.W, "%d@%s\t", t.Build(), t.TopTag())
	fmt.Fprintf(tr.W, format, args...)
	fmt.Fprintln(tr.W)
}

func (tr *WriteTracer) Debug(t *mkcore.Trace, msg string, args ...any) {
	if tr.on(mkcore.TraceDebug) {
		tr.msg(t, "DEBUG", msg, args)
	}
}

func (tr *WriteTracer) Info(t *mkcore.Trace, msg string, args ...any) {
	if tr.on(mkcore.TraceInfo) {
		tr.msg(t, "INFO", msg, args)
	}
}

func (tr *WriteTracer) Warn(t *mkcore.Trace, msg string, args ...any) {
	if tr.on(mkcore.TraceWarn) {
		tr.msg(t, "WARN", msg, args)
	}
}

func (tr *WriteTracer) StartProject(t *mkcore.Trace, p *mkcore.Project, activity string) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "{ %s project '%s' in %s", activity, p, p.Dir)
	}
}

func (tr *WriteTracer) DoneProject(t *mkcore.Trace, p *mkcore.Project, activity string, dt time.Duration) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "} %s project '%s' took %s", activity, p, dt)
	}
}

func (tr *WriteTracer) RunAction(t *mkcore.Trace, a *mkcore.Action) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "  run (%s)", a)
	}
}

func (tr *WriteTracer) RunImplicitAction(t *mkcore.Trace, a *mkcore.Action) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "  implicit (%s)", a)
	}
}

func (tr *WriteTracer) SkipAction(t *mkcore.Trace, a *mkcore.Action) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "  dry-run (%s)", a)
	}
}

func (tr *WriteTracer) ScheduleResTimeZero(t *mkcore.Trace, a *mkcore.Action, res *mkcore.Goal) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "  schedule (%s) for %s without state time", a, res)
	}
}

func (tr *WriteTracer) ScheduleNotPremises(t *mkcore.Trace, a *mkcore.Action, res *mkcore.Goal) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "  schedule (%s) without premises for %s", a, res)
	}
}

func (tr *WriteTracer) SchedulePreTimeZero(t *mkcore.Trace, a *mkcore.Action, res, pre *mkcore.Goal) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "  schedule (%s) for %s, premise %s has no state time", a, res, pre)
	}
}

func (tr *WriteTracer) ScheduleOutdated(t *mkcore.Trace, a *mkcore.Action, res, pre *mkcore.Goal) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "  schedule (%s) for %s, premise %s is newer", a, res, pre)
	}
}

func (tr *WriteTracer) CheckGoal(t *mkcore.Trace, g *mkcore.Goal) {
	if tr.on(mkcore.TraceDebug) {
		tr.line(t, "? %s %s", g, t.Path())
	}
}

func (tr *WriteTracer) GoalUpToDate(t *mkcore.Trace, g *mkcore.Goal) {
	if tr.on(mkcore.TraceInfo) {
		tr.line(t, ". %s is up-to-date", g)
	}
}

func (tr *WriteTracer) GoalNeedsActions(t *mkcore.Trace, g *mkcore.Goal, n int) {
	if tr.on(mkcore.TraceInfo) {
		tr.line(t, "! %s needs %d actions", g, n)
	}
}

func (tr *WriteTracer) RemoveArtefact(t *mkcore.Trace, g *mkcore.Goal) {
	if tr.on(mkcore.TraceWarn) {
		tr.line(t, "! remove %s", g)
	}
}

// sllmArgs are key/value pairs or [slog.Attr]s like the arguments of the slog
// logging functions.
type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", k)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value.Any()), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no argument '%s'", n)
}
