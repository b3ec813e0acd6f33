package header

import (
	"path/filepath"
	"strings"
)

// Style is how a header is written as a comment.
type Style struct {
	Begin, Line, End string
}

var (
	BlockStyle = Style{Begin: "/*", Line: " * ", End: " */"}
	SlashStyle = Style{Line: "// "}
	HashStyle  = Style{Line: "# "}
)

// Styles maps file extensions to header styles.
var Styles = map[string]Style{
	".java":   BlockStyle,
	".kt":     BlockStyle,
	".kts":    BlockStyle,
	".groovy": BlockStyle,
	".scala":  BlockStyle,
	".go":     SlashStyle,
	".sh":     HashStyle,
	".yaml":   HashStyle,
	".yml":    HashStyle,
	".toml":   HashStyle,
}

// StyleFor returns the style for the file at path.
func StyleFor(path string) (Style, bool) {
	s, ok := Styles[strings.ToLower(filepath.Ext(path))]
	return s, ok
}

// Format writes header as a comment, one comment line per header line. The
// result ends with a newline.
func (s Style) Format(header string) string {
	var sb strings.Builder
	if s.Begin != "" {
		sb.WriteString(s.Begin)
		sb.WriteByte('\n')
	}
	for _, ln := range strings.Split(header, "\n") {
		sb.WriteString(strings.TrimRight(s.Line+ln, " \t"))
		sb.WriteByte('\n')
	}
	if s.End != "" {
		sb.WriteString(s.End)
		sb.WriteByte('\n')
	}
	return sb.String()
}
