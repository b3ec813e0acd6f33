// Package props implements the property set a release pass is configured
// with. A [Set] maps property names to string values. Absence of a property
// is a normal state and can always be told apart from an empty value:
//
//	v, ok := set.Get("maldRepo") // ok == false: not set at all
//
// Sets are layered. A layer created with [Set.Sub] shadows its parent, which
// is how the different property sources (properties files, environment,
// command line) override each other without being merged eagerly.
package props

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type Set struct {
	name   string
	vals   map[string]string
	delt   map[string]bool
	parent *Set
}

// New creates a root layer named name holding a copy of vals.
func New(name string, vals map[string]string) *Set {
	s := &Set{name: name}
	if len(vals) > 0 {
		s.vals = maps.Clone(vals)
	}
	return s
}

// Sub creates a new empty layer on top of s.
func (s *Set) Sub(name string) *Set {
	return &Set{name: name, parent: s}
}

func (s *Set) Name() string { return s.name }

func (s *Set) Parent() *Set { return s.parent }

func (s *Set) Get(key string) (string, bool) {
	for s != nil {
		if s.vals != nil {
			if v, ok := s.vals[key]; ok {
				return v, true
			}
		}
		if s.delt != nil && s.delt[key] {
			break
		}
		s = s.parent
	}
	return "", false
}

func (s *Set) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Source returns the name of the layer that provides key.
func (s *Set) Source(key string) (string, bool) {
	for s != nil {
		if s.vals != nil {
			if _, ok := s.vals[key]; ok {
				return s.name, true
			}
		}
		if s.delt != nil && s.delt[key] {
			break
		}
		s = s.parent
	}
	return "", false
}

func (s *Set) Set(key, val string) {
	if s.vals == nil {
		s.vals = make(map[string]string)
	}
	s.vals[key] = val
	if s.delt != nil {
		delete(s.delt, key)
	}
}

// SetPairs sets properties from "key=value" strings. A pair without '='
// sets key to the empty string. Empty keys are rejected.
func (s *Set) SetPairs(pairs ...string) error {
	var bad []string
	for _, p := range pairs {
		k, v, _ := strings.Cut(p, "=")
		if k == "" {
			bad = append(bad, p)
			continue
		}
		s.Set(k, v)
	}
	if len(bad) > 0 {
		return fmt.Errorf("properties without key: %s", strings.Join(bad, ", "))
	}
	return nil
}

func (s *Set) SetMap(m map[string]string) {
	for k, v := range m {
		s.Set(k, v)
	}
}

// Del removes key from s and hides it in all parent layers.
func (s *Set) Del(key string) {
	delete(s.vals, key)
	if s.parent != nil {
		if s.delt == nil {
			s.delt = make(map[string]bool)
		}
		s.delt[key] = true
	}
}

// Keys returns the sorted names of all visible properties.
func (s *Set) Keys() []string {
	m := s.merged()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Map returns a flat copy of all visible properties.
func (s *Set) Map() map[string]string { return s.merged() }

// String describes the layers of s. It never reveals property values.
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteString("props[")
	for l := s; l != nil; l = l.parent {
		if l != s {
			sb.WriteByte('<')
		}
		fmt.Fprintf(&sb, "%s:%d", l.name, len(l.vals))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (s *Set) merged() map[string]string {
	if s.parent == nil {
		if s.vals == nil {
			return make(map[string]string)
		}
		return maps.Clone(s.vals)
	}
	m := s.parent.merged()
	for k := range s.delt {
		delete(m, k)
	}
	maps.Copy(m, s.vals)
	return m
}
