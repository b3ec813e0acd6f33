// Package release decides, once per release pass, how release artifacts are
// signed and where they are published. The decision is derived from an
// optional set of properties only: every combination of present and absent
// properties maps to a defined result, missing properties are never an
// error.
//
// Key exports:
//
//   - [Names] – which property names to read; loadable from YAML
//   - [Signing] – the closed set of signing decisions ([KeyFromFile],
//     [KeyLiteral], [ExternalAgent]) and [MatchSigning] to handle them
//   - [Targets] – the snapshot and release publication bindings
//   - [Resolver] – evaluates both decisions lazily and exactly once
package release

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Names selects the properties a [Resolver] reads. Projects differ in how
// they name them, so none of the names is hard-wired.
type Names struct {
	// KeyLocator names the property with the signing key. Its value is
	// either a path relative to the project root or the key itself.
	KeyLocator string `yaml:"keyLocator"`

	// KeyPassphrase names the property with the passphrase of the key.
	KeyPassphrase string `yaml:"keyPassphrase"`

	// Repository names the property holding the repository URL.
	Repository string `yaml:"repository,omitempty"`

	// RepositoryRef optionally names a property whose value is the name of
	// the property holding the repository URL. If set and present it takes
	// precedence over Repository.
	RepositoryRef string `yaml:"repositoryRef,omitempty"`

	// TargetName is the name the repository endpoint is registered with. It
	// also prefixes the credential properties of the endpoint.
	TargetName string `yaml:"targetName"`
}

func DefaultNames() Names {
	return Names{
		KeyLocator:    "spongeSigningKey",
		KeyPassphrase: "spongeSigningPassword",
		Repository:    "maldRepo",
		TargetName:    "maldloader",
	}
}

func (n Names) Validate() error {
	var errs []error
	if n.KeyLocator == "" {
		errs = append(errs, errors.New("no key locator property"))
	}
	if n.KeyPassphrase == "" {
		errs = append(errs, errors.New("no key passphrase property"))
	}
	if n.KeyLocator != "" && n.KeyLocator == n.KeyPassphrase {
		errs = append(errs, fmt.Errorf("key locator and passphrase both use property '%s'",
			n.KeyLocator,
		))
	}
	if n.Repository == "" && n.RepositoryRef == "" {
		errs = append(errs, errors.New("neither repository nor repository reference property"))
	}
	if n.TargetName == "" {
		errs = append(errs, errors.New("no target name"))
	}
	return errors.Join(errs...)
}

// DecodeNames reads YAML from r on top of [DefaultNames]. Unknown fields are
// rejected, an empty document yields the defaults.
func DecodeNames(r io.Reader) (Names, error) {
	n := DefaultNames()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&n); err != nil && !errors.Is(err, io.EOF) {
		return Names{}, err
	}
	return n, n.Validate()
}

func LoadNames(path string) (Names, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Names{}, err
	}
	n, err := DecodeNames(bytes.NewReader(data))
	if err != nil {
		return Names{}, fmt.Errorf("property names %s: %w", path, err)
	}
	return n, nil
}
