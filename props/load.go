package props

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/magiconair/properties"
)

// DefaultEnvPrefix marks environment variables that carry properties, the
// same convention Gradle uses for project properties.
const DefaultEnvPrefix = "ORG_GRADLE_PROJECT_"

// DefaultFileName is the name of properties files in the project root and
// in the user's home.
const DefaultFileName = "gradle.properties"

// LoadFile reads a Java properties file. The file is always decoded as
// UTF-8 and ${…} references are kept as they are.
func LoadFile(path string) (map[string]string, error) {
	ldr := properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := ldr.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load properties %s: %w", path, err)
	}
	return p.Map(), nil
}

// LoadDotenv reads a dotenv file.
func LoadDotenv(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load dotenv %s: %w", path, err)
	}
	return m, nil
}

// FromEnviron picks all variables starting with prefix from environ (in the
// format of [os.Environ]) and strips the prefix. An empty prefix selects
// nothing.
func FromEnviron(environ []string, prefix string) map[string]string {
	if prefix == "" {
		return nil
	}
	res := make(map[string]string)
	for _, ev := range environ {
		k, v, _ := strings.Cut(ev, "=")
		if k, ok := strings.CutPrefix(k, prefix); ok && k != "" {
			res[k] = v
		}
	}
	return res
}

// Sources describes where the properties of a release pass come from. Files
// that are not set are skipped. ProjectFile and UserFile may be missing,
// the DotenvFile must exist when set.
type Sources struct {
	ProjectFile string
	UserFile    string
	DotenvFile  string
	EnvPrefix   string
	Environ     []string
	Overrides   []string // "key=value", the -P flags
}

// DefaultSources returns the sources for a project in dir: dir's and the
// user's gradle.properties and the process environment.
func DefaultSources(dir string) Sources {
	src := Sources{
		ProjectFile: filepath.Join(dir, DefaultFileName),
		EnvPrefix:   DefaultEnvPrefix,
		Environ:     os.Environ(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		src.UserFile = filepath.Join(home, ".gradle", DefaultFileName)
	}
	return src
}

// Load builds the layered property set. Later sources take precedence:
// project file < user file < dotenv file < environment < overrides.
func (src Sources) Load() (*Set, error) {
	set, err := optionalFile("project", src.ProjectFile, New("defaults", nil))
	if err != nil {
		return nil, err
	}
	if set, err = optionalFile("user", src.UserFile, set); err != nil {
		return nil, err
	}
	if src.DotenvFile != "" {
		m, err := LoadDotenv(src.DotenvFile)
		if err != nil {
			return nil, err
		}
		set = set.Sub("dotenv")
		set.SetMap(m)
	}
	if m := FromEnviron(src.Environ, src.EnvPrefix); len(m) > 0 {
		set = set.Sub("environment")
		set.SetMap(m)
	}
	if len(src.Overrides) > 0 {
		set = set.Sub("command-line")
		if err := set.SetPairs(src.Overrides...); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func optionalFile(name, path string, onto *Set) (*Set, error) {
	if path == "" {
		return onto, nil
	}
	m, err := LoadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return onto, nil
	case err != nil:
		return nil, err
	}
	set := onto.Sub(name)
	set.SetMap(m)
	return set, nil
}
