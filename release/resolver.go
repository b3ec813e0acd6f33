package release

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/text/encoding/unicode"
)

// Properties is read-only access to a property set. Absent properties
// report false.
type Properties interface {
	Get(key string) (string, bool)
}

// Files is the file system access needed to resolve a key locator.
type Files interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFiles accesses the operating system's file system.
type OSFiles struct{}

func (OSFiles) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OSFiles) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// KeyPath resolves a key locator against the project root. Absolute
// locators are kept.
func KeyPath(root, locator string) string {
	if filepath.IsAbs(locator) {
		return filepath.Clean(locator)
	}
	return filepath.Join(root, locator)
}

// ResolveSigning decides how to sign with the properties p. Only when both
// the key locator and the passphrase are present an in-memory key is used:
// if the locator names a regular file below root the key is the file's
// UTF-8 text, otherwise the locator itself is the key. In any other case the
// external agent is used in batch mode.
//
// The only error is a failure to read an existing key file.
func ResolveSigning(p Properties, n Names, root string, files Files) (Signing, error) {
	locator, hasLoc := p.Get(n.KeyLocator)
	pass, hasPass := p.Get(n.KeyPassphrase)
	if !hasLoc || !hasPass {
		return ExternalAgent{Batch: true}, nil
	}
	if files == nil {
		files = OSFiles{}
	}
	path := KeyPath(root, locator)
	if st, err := files.Stat(path); err != nil || !st.Mode().IsRegular() {
		return KeyLiteral{Key: locator, Passphrase: pass}, nil
	}
	key, err := readKeyText(files, path)
	if err != nil {
		return nil, err
	}
	return KeyFromFile{Path: path, Key: key, Passphrase: pass}, nil
}

func readKeyText(files Files, path string) (string, error) {
	raw, err := files.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read signing key: %w", err)
	}
	txt, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode signing key %s: %w", path, err)
	}
	return string(txt), nil
}

// Resolver derives the signing decision and the publication targets from a
// property set. Each is evaluated on first request and then kept for the
// lifetime of the resolver, so the key file is checked and read at most
// once. A Resolver is safe for concurrent use.
type Resolver struct {
	props Properties
	names Names
	root  string
	files Files

	sigOnce sync.Once
	sig     Signing
	sigErr  error

	tgtOnce sync.Once
	tgts    Targets
}

// NewResolver creates a resolver for the project in root. With files nil
// the OS file system is used.
func NewResolver(p Properties, n Names, root string, files Files) *Resolver {
	if files == nil {
		files = OSFiles{}
	}
	return &Resolver{props: p, names: n, root: root, files: files}
}

func (r *Resolver) Names() Names { return r.names }

func (r *Resolver) Root() string { return r.root }

func (r *Resolver) Signing() (Signing, error) {
	r.sigOnce.Do(func() {
		r.sig, r.sigErr = ResolveSigning(r.props, r.names, r.root, r.files)
	})
	return r.sig, r.sigErr
}

func (r *Resolver) Targets() Targets {
	r.tgtOnce.Do(func() {
		r.tgts = ResolveTargets(r.props, r.names)
	})
	return r.tgts
}
