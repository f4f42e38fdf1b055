package llm

import (
	"fmt"
	"sort"
	"strings"
)

// BuildRevisionPrompt asks the model to place effect and sound cues over the
// original narration script, constrained to the catalogs it is given. The
// expected answer is nothing but timestamped cue lines the line parser
// understands.
func BuildRevisionPrompt(originalScript, theme, targetAudience, videoPurpose string, fx, sfx map[string]string) string {
	var b strings.Builder

	b.WriteString("You are a professional video post-production editor.\n\n")
	b.WriteString("**Original script:**\n")
	b.WriteString(originalScript)
	b.WriteString("\n\n**User settings:**\n")
	fmt.Fprintf(&b, "Theme/style: %s\n", theme)
	fmt.Fprintf(&b, "Target audience: %s\n", targetAudience)
	fmt.Fprintf(&b, "Video purpose: %s\n", videoPurpose)

	if len(fx) > 0 {
		b.WriteString("\n**Available visual effects:**\n")
		for _, code := range sortedKeys(fx) {
			fmt.Fprintf(&b, "- {FX_%s}: %s\n", code, fx[code])
		}
	}
	if len(sfx) > 0 {
		b.WriteString("\n**Available sound effects:**\n")
		for _, code := range sortedKeys(sfx) {
			fmt.Fprintf(&b, "- {SFX_%s}: %s\n", code, sfx[code])
		}
	}

	b.WriteString(`
---

Your task:
1. Analyze the script and pick the moments that deserve a visual effect or sound effect.
2. For text overlays, emit drawtext directives without a fontfile parameter, for example:
[00:00:07.120 - 00:00:10.300] drawtext=text='Freezing cold!':fontsize=36:fontcolor=white:x=(w-text_w)/2:y=h/4
3. For everything else keep the placeholder format, for example:
[00:00:01.000 - 00:00:03.000] {FX_FLASH(duration=0.5)}
[00:00:05.500 - 00:00:06.500] {SFX_WHOOSH}
4. Output only the final list of timestamped cue lines, no explanations or surrounding text.
`)

	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
