package mkfs

import (
	"io/fs"
	"path/filepath"
	"slices"
)

type Filter interface {
	Ok(path string, entry fs.DirEntry) (bool, error)
}

type FilterFunc func(string, fs.DirEntry) (bool, error)

func (ff FilterFunc) Ok(p string, e fs.DirEntry) (bool, error) { return ff(p, e) }

// NameMatch accepts entries whose name matches the pattern of
// [filepath.Match].
type NameMatch string

func (p NameMatch) Ok(_ string, e fs.DirEntry) (bool, error) {
	return filepath.Match(string(p), e.Name())
}

// ExtIn accepts entries with one of the listed extensions, e.g. ".asc".
type ExtIn []string

func (exts ExtIn) Ok(_ string, e fs.DirEntry) (bool, error) {
	return slices.Contains(exts, filepath.Ext(e.Name())), nil
}

func Not(f Filter) Filter {
	return FilterFunc(func(p string, e fs.DirEntry) (bool, error) {
		ok, err := f.Ok(p, e)
		return !ok, err
	})
}

type All []Filter

func (all All) Ok(p string, e fs.DirEntry) (bool, error) {
	for _, f := range all {
		if ok, err := f.Ok(p, e); err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
