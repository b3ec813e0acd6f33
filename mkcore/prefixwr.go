package mkcore

import (
	"bytes"
	"io"
)

// PrefixWriter writes a prefix at the start of every line written to W. It is
// used to mark the output of external tools.
type PrefixWriter struct {
	W      io.Writer
	Prefix []byte

	midLine bool
}

func NewPrefixWriter(w io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{W: w, Prefix: []byte(prefix)}
}

// Reset makes the next write start a new line.
func (pw *PrefixWriter) Reset() { pw.midLine = false }

func (pw *PrefixWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !pw.midLine {
			if _, err = pw.W.Write(pw.Prefix); err != nil {
				return n, err
			}
			pw.midLine = true
		}
		line := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			line = p[:i+1]
			pw.midLine = false
		}
		m, err := pw.W.Write(line)
		n += m
		if err != nil {
			return n, err
		}
		p = p[len(line):]
	}
	return n, nil
}
