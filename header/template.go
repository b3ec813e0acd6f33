// Package header keeps license headers of source files in line with a
// template. The template uses ${name} placeholders that are filled from
// properties. Rendered headers are formatted as comments according to the
// file type.
package header

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Property names a template is usually expanded with.
const (
	PropOrganization = "organization"
	PropProjectURL   = "projectUrl"
)

// DefaultFile is the template file in the project root.
const DefaultFile = "HEADER.txt"

type Template struct {
	text string
}

func ParseTemplate(text string) (*Template, error) {
	if _, err := expand(text, nil, true); err != nil {
		return nil, err
	}
	return &Template{text: text}, nil
}

func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseTemplate(string(data))
	if err != nil {
		return nil, fmt.Errorf("header template %s: %w", path, err)
	}
	return t, nil
}

// Keys returns the placeholder keys in order of first appearance.
func (t *Template) Keys() (keys []string) {
	seen := make(map[string]bool)
	expand(t.text, func(k string) (string, bool) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		return "", true
	}, false)
	return keys
}

// Expand fills in the placeholders. All missing values are reported in one
// error. The result has no trailing newlines.
func (t *Template) Expand(vals func(key string) (string, bool)) (string, error) {
	s, err := expand(t.text, vals, false)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n"), nil
}

func expand(text string, vals func(string) (string, bool), syntaxOnly bool) (string, error) {
	var (
		sb      strings.Builder
		missing []error
	)
	for {
		i := strings.Index(text, "${")
		if i < 0 {
			sb.WriteString(text)
			break
		}
		sb.WriteString(text[:i])
		text = text[i+2:]
		j := strings.IndexByte(text, '}')
		if j < 0 {
			return "", errors.New("unterminated placeholder")
		}
		key := strings.TrimSpace(text[:j])
		if key == "" {
			return "", errors.New("empty placeholder")
		}
		text = text[j+1:]
		if syntaxOnly {
			continue
		}
		if v, ok := vals(key); ok {
			sb.WriteString(v)
		} else {
			missing = append(missing, fmt.Errorf("no value for '%s'", key))
		}
	}
	return sb.String(), errors.Join(missing...)
}
