package mkcore

import (
	"io"
	"log/slog"
	"os"

	"git.fractalqb.de/fractalqb/qblog"
	"git.fractalqb.de/fractalqb/relmk/props"
)

// Env is the environment operations run in.
type Env struct {
	In       io.Reader
	Out, Err io.Writer

	// Props are the build properties. May be nil.
	Props *props.Set

	// Log is for messages of operations. Messages use back-ticked argument
	// names like "sign `file`".
	Log *slog.Logger

	// DryRun makes the builder skip operations.
	DryRun bool
}

// DefaultEnv returns an environment using the process's standard streams
// that discards log messages.
func DefaultEnv(ps *props.Set) *Env {
	return &Env{
		In:    os.Stdin,
		Out:   os.Stdout,
		Err:   os.Stderr,
		Props: ps,
		Log:   discardLog.Logger,
	}
}

// Sub returns a copy of e with its own property layer on top of e's
// properties.
func (e *Env) Sub(name string) *Env {
	sub := *e
	if e.Props == nil {
		sub.Props = props.New(name, nil)
	} else {
		sub.Props = e.Props.Sub(name)
	}
	return &sub
}

// Prop looks up a build property. Without properties every key is absent.
func (e *Env) Prop(key string) (string, bool) {
	if e == nil || e.Props == nil {
		return "", false
	}
	return e.Props.Get(key)
}

// Logger returns e.Log or a logger that discards everything if Log is nil.
func (e *Env) Logger() *slog.Logger {
	if e.Log == nil {
		return discardLog.Logger
	}
	return e.Log
}

var discardLog = qblog.New(qblog.DefaultConfig.Clone().SetWriter(io.Discard))
