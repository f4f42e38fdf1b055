package script

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// SegmentKind distinguishes narration text from embedded effect instructions.
type SegmentKind string

const (
	SegmentText   SegmentKind = "text"
	SegmentVisual SegmentKind = "fx"
	SegmentSound  SegmentKind = "sfx"
)

// Segment is one piece of a revised script: either plain narration or a
// single effect/sound instruction extracted from a placeholder.
type Segment struct {
	Kind SegmentKind

	// Text holds the trimmed narration run (SegmentText only).
	Text string

	// Code is the effect identifier without the FX_/SFX_ prefix.
	Code string

	// Start/End carry the nearest preceding timestamp range on the
	// placeholder's line, empty when the line has none.
	Start string
	End   string

	// Params holds literal-coerced placeholder parameters (fx only).
	Params map[string]any
}

var (
	// {FX_CODE} or {FX_CODE(k=v, k=v)}
	fxPattern = regexp.MustCompile(`\{FX_([A-Z_]+)(?:\((.*?)\))?\}`)
	// {SFX_CODE}, no parameters
	sfxPattern = regexp.MustCompile(`\{SFX_([A-Z_]+)\}`)
	// [H:MM:SS.mmm - H:MM:SS.mmm]
	timeRangePattern = regexp.MustCompile(`\[(\d+:\d{2}:\d{2}\.\d{3})\s*-\s*(\d+:\d{2}:\d{2}\.\d{3})\]`)
)

type placeholder struct {
	start, end int
	kind       SegmentKind
	code       string
	paramsBlob string
}

// Parse splits an LLM-revised script into ordered narration and instruction
// segments. Placeholders from both grammars are collected across the whole
// text and ordered by character offset, so interleaving is deterministic no
// matter which scan found them. Empty trimmed narration runs are dropped.
func Parse(text string) []Segment {
	var found []placeholder
	for _, m := range fxPattern.FindAllStringSubmatchIndex(text, -1) {
		p := placeholder{start: m[0], end: m[1], kind: SegmentVisual, code: text[m[2]:m[3]]}
		if m[4] >= 0 {
			p.paramsBlob = text[m[4]:m[5]]
		}
		found = append(found, p)
	}
	for _, m := range sfxPattern.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, placeholder{start: m[0], end: m[1], kind: SegmentSound, code: text[m[2]:m[3]]})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	var segments []Segment
	last := 0
	for _, p := range found {
		if p.start > last {
			if t := strings.TrimSpace(text[last:p.start]); t != "" {
				segments = append(segments, Segment{Kind: SegmentText, Text: t})
			}
		}

		seg := Segment{Kind: p.kind, Code: p.code, Params: map[string]any{}}
		seg.Start, seg.End = precedingRange(text, p.start)
		if p.paramsBlob != "" {
			seg.Params = ParseParams(p.paramsBlob)
		}
		segments = append(segments, seg)
		last = p.end
	}
	if last < len(text) {
		if t := strings.TrimSpace(text[last:]); t != "" {
			segments = append(segments, Segment{Kind: SegmentText, Text: t})
		}
	}
	return segments
}

// precedingRange finds the nearest timestamp range before offset on the same line.
func precedingRange(text string, offset int) (string, string) {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	line := text[lineStart:offset]

	matches := timeRangePattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return "", ""
	}
	m := matches[len(matches)-1]
	return m[1], m[2]
}

// ParseParams parses a "k1=v1,k2=v2" parameter blob with literal-only type
// coercion. Values are never evaluated as code; anything that is not a
// recognizable bool, int or float literal stays a string. A blob that yields
// no usable pairs produces an empty set and a warning, never an error.
func ParseParams(blob string) map[string]any {
	params := map[string]any{}
	pairs := splitTopLevel(blob)

	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		k, v, found := strings.Cut(pair, "=")
		if !found {
			logger.Warnf("⚠️ Skipping malformed placeholder parameter: %q", pair)
			continue
		}
		key := strings.TrimSpace(k)
		if key == "" {
			logger.Warnf("⚠️ Skipping placeholder parameter with empty key: %q", pair)
			continue
		}
		params[key] = coerceLiteral(strings.TrimSpace(v))
	}

	if len(params) == 0 && strings.TrimSpace(blob) != "" {
		logger.Warnf("⚠️ Could not parse placeholder parameters: %q", blob)
	}
	return params
}

// splitTopLevel splits a blob on commas that are not inside quotes.
func splitTopLevel(blob string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(blob); i++ {
		c := blob[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			parts = append(parts, blob[start:i])
			start = i + 1
		}
	}
	parts = append(parts, blob[start:])
	return parts
}

// coerceLiteral converts a value to the most specific applicable type:
// bool, int, float, quoted string, then raw string fallback.
func coerceLiteral(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return int(n)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if len(v) >= 2 {
		if (v[0] == '\'' && v[len(v)-1] == '\'') || (v[0] == '"' && v[len(v)-1] == '"') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
