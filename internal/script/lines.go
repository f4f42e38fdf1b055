package script

import (
	"regexp"
	"strings"
)

// Cue is one timed render directive from the line-oriented script format:
// "[H:MM:SS.mmm - H:MM:SS.mmm] {PLACEHOLDER}" or a raw drawtext overlay.
type Cue struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Code  string `json:"code"`
}

var (
	cueLinePattern = regexp.MustCompile(`^\s*\[(.*?)\s-\s(.*?)\]\s*(.*)$`)
	bracePattern   = regexp.MustCompile(`\{(.*?)\}`)
)

// ParseCues scans a revised script line by line and returns the timed
// directives in source order. The payload after the timestamp range is
// either a brace-delimited placeholder (returned stripped of braces) or a
// raw drawtext directive. Lines without a timestamp range or a recognizable
// payload are skipped silently.
func ParseCues(text string) []Cue {
	var cues []Cue
	for _, line := range strings.Split(text, "\n") {
		m := cueLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rest := m[3]

		var code string
		if bm := bracePattern.FindStringSubmatch(rest); bm != nil {
			code = strings.TrimSpace(bm[1])
		} else if i := strings.Index(rest, "drawtext="); i >= 0 {
			code = strings.TrimSpace(rest[i:])
		}
		if code == "" {
			continue
		}

		cues = append(cues, Cue{
			Start: strings.TrimSpace(m[1]),
			End:   strings.TrimSpace(m[2]),
			Code:  code,
		})
	}
	return cues
}

// CueName returns the effect identifier of a cue code, without a trailing
// parameter list: "FX_FLASH(duration=0.5)" -> "FX_FLASH".
func CueName(code string) string {
	if i := strings.IndexByte(code, '('); i >= 0 {
		return strings.TrimSpace(code[:i])
	}
	return strings.TrimSpace(code)
}

// CueParams extracts and parses the parameter blob of a cue code, if any.
func CueParams(code string) map[string]any {
	open := strings.IndexByte(code, '(')
	closing := strings.LastIndexByte(code, ')')
	if open < 0 || closing <= open {
		return map[string]any{}
	}
	return ParseParams(code[open+1 : closing])
}
