package mkcore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
)

type BuildID = uint64

// Project is the build graph of one project directory.
type Project struct {
	Dir string

	mutex     sync.Mutex
	goals     map[string]*Goal
	actions   []*Action
	lastBuild BuildID
}

// NewProject creates a project in dir. If dir is empty the current working
// directory is used.
func NewProject(dir string) *Project {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Project{
		Dir:   dir,
		goals: make(map[string]*Goal),
	}
}

// Goal returns the goal for atf. If the project already has a goal for an
// artefact with the same name, that goal is returned.
func (prj *Project) Goal(atf Artefact) (*Goal, error) {
	if atf == nil {
		return nil, fmt.Errorf("nil artefact for goal in project %s", prj)
	}
	name := atf.Name(prj)
	if name == "" {
		return nil, fmt.Errorf("artefact %T without name in project %s", atf, prj)
	}
	if g := prj.goals[name]; g != nil {
		if reflect.TypeOf(g.Artefact) != reflect.TypeOf(atf) {
			return nil, fmt.Errorf("goal '%s' already has artefact type %T, not %T",
				name,
				g.Artefact,
				atf,
			)
		}
		return g, nil
	}
	g := &Goal{Artefact: atf, prj: prj}
	prj.goals[name] = g
	return g, nil
}

// Goals returns all goals of prj sorted by name.
func (prj *Project) Goals() []*Goal {
	gs := make([]*Goal, 0, len(prj.goals))
	for _, g := range prj.goals {
		gs = append(gs, g)
	}
	slices.SortFunc(gs, func(a, b *Goal) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return gs
}

func (prj *Project) FindGoal(name string) *Goal { return prj.goals[name] }

func (prj *Project) Actions() []*Action { return prj.actions }

func (prj *Project) Name(in *Project) string {
	if in == nil || in == prj {
		return filepath.Base(prj.Dir)
	}
	n, _ := in.RelPath(prj.Dir)
	return n
}

func (prj *Project) String() string {
	tmp := prj.Dir
	if tmp == "" || tmp == "." {
		tmp, _ = filepath.Abs(tmp)
	}
	return filepath.Base(tmp)
}

// AbsPath resolves p relative to the project directory.
func (prj *Project) AbsPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Abs(filepath.Join(prj.Dir, p))
}

// RelPath returns p relative to the project directory. Relative paths are
// considered to be relative to the project directory already.
func (prj *Project) RelPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir, err := filepath.Abs(prj.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Rel(dir, p)
}

// Leafs returns the goals that are no premise of any action.
func (prj *Project) Leafs() (ls []*Goal) {
	for _, g := range prj.Goals() {
		if len(g.premiseOf) == 0 {
			ls = append(ls, g)
		}
	}
	return ls
}

// NewAction creates a new [Action] in project prj. There must be at least one
// result. All premises and results must belong to prj.
func (prj *Project) NewAction(premises, results []*Goal, op Operation) (*Action, error) {
	if len(results) == 0 {
		if op == nil {
			return nil, fmt.Errorf("implicit action without result in project %s", prj)
		}
		return nil, fmt.Errorf("action %s without result", op.Describe(nil, nil))
	}
	if err := prj.owns("premise", premises); err != nil {
		return nil, err
	}
	if err := prj.owns("result", results); err != nil {
		return nil, err
	}
	a := &Action{
		Op:       op,
		prj:      prj,
		idx:      uint(len(prj.actions)),
		premises: premises,
		results:  results,
	}
	for _, p := range premises {
		p.premiseOf = append(p.premiseOf, a)
	}
	for _, r := range results {
		r.resultOf = append(r.resultOf, a)
	}
	prj.actions = append(prj.actions, a)
	return a, nil
}

func (prj *Project) owns(role string, gs []*Goal) error {
	for _, g := range gs {
		if g.prj != prj {
			return fmt.Errorf("%s %s not in project %s", role, g, prj)
		}
	}
	return nil
}

func (prj *Project) lockBuild() BuildID {
	prj.mutex.Lock()
	prj.lastBuild++
	return prj.lastBuild
}

func (prj *Project) unlock() { prj.mutex.Unlock() }

func escDotID(id string) string {
	return strings.ReplaceAll(id, "\"", "\\\"")
}

// WriteDot writes the build graph in graphviz format.
func (prj *Project) WriteDot(w io.Writer) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = e
			} else {
				panic(p)
			}
		}
	}()
	akku := func(p int, err error) {
		n += p
		if err != nil {
			panic(err)
		}
	}
	akku(fmt.Fprintf(w, "digraph \"%s\" {\n\trankdir=\"LR\"\n", escDotID(prj.String())))
	for _, g := range prj.Goals() {
		tn := reflect.Indirect(reflect.ValueOf(g.Artefact)).Type().Name()
		var style string
		switch {
		case g.IsAbstract():
			style = ",style=dashed"
		case len(g.resultOf) == 0:
			style = ",style=bold"
		}
		akku(fmt.Fprintf(w, "\t\"%p\" [shape=record%s,label=\"{%s %s|%s}\"];\n",
			g,
			style,
			tn,
			g.UpdateMode,
			escDotID(g.Name()),
		))
	}
	for _, a := range prj.actions {
		if a.Op == nil {
			akku(fmt.Fprintf(w, "\t\"%p\" [shape=none,label=\"implicit\"];\n", a))
		} else {
			akku(fmt.Fprintf(w, "\t\"%p\" [shape=box,style=rounded,label=\"%s\"];\n",
				a,
				escDotID(a.String()),
			))
		}
		for _, p := range a.premises {
			akku(fmt.Fprintf(w, "\t\"%p\" -> \"%p\";\n", p, a))
		}
		for _, r := range a.results {
			akku(fmt.Fprintf(w, "\t\"%p\" -> \"%p\";\n", a, r))
		}
	}
	akku(fmt.Fprintln(w, "}"))
	return n, nil
}
