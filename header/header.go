package header

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrUnsupported = errors.New("unsupported file type")

// Header is an expanded header text.
type Header struct {
	text string
}

// New expands t with vals.
func New(t *Template, vals func(key string) (string, bool)) (*Header, error) {
	txt, err := t.Expand(vals)
	if err != nil {
		return nil, err
	}
	return &Header{text: txt}, nil
}

func (h *Header) Text() string { return h.text }

// For returns the header formatted for the file at path.
func (h *Header) For(path string) (string, error) {
	s, ok := StyleFor(path)
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return s.Format(h.text), nil
}

// Check reports whether the file at path starts with the header. A leading
// "#!" line is skipped. Line endings are not significant.
func (h *Header) Check(path string) (bool, error) {
	hdr, err := h.For(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	_, body := splitShebang(strings.ReplaceAll(string(data), "\r\n", "\n"))
	return strings.HasPrefix(body, hdr), nil
}

// Apply prepends the header to the file at path unless it already has it.
// It reports whether the file was changed.
func (h *Header) Apply(path string) (bool, error) {
	if ok, err := h.Check(path); err != nil || ok {
		return false, err
	}
	hdr, _ := h.For(path)
	st, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	shebang, body := splitShebang(string(data))
	nl := "\n"
	if strings.Contains(string(data), "\r\n") {
		nl = "\r\n"
		hdr = strings.ReplaceAll(hdr, "\n", nl)
	}
	var sep string
	if body != "" && !strings.HasPrefix(body, nl) {
		sep = nl
	}
	out := shebang + hdr + sep + body
	return true, os.WriteFile(path, []byte(out), st.Mode().Perm())
}

func splitShebang(s string) (shebang, body string) {
	if !strings.HasPrefix(s, "#!") {
		return "", s
	}
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, ""
	}
	return s[:i+1], s[i+1:]
}
