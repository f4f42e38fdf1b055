package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/effects"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/fileops"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/script"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Compositor turns parsed cues plus source media into the final render.
// Text overlays go in one burn-in pass; visual and sound effects go in a
// second filter-graph pass layered over the result of the first.
type Compositor struct {
	engine Engine
	sounds *effects.SoundLibrary
}

func New(engine Engine, sounds *effects.SoundLibrary) *Compositor {
	return &Compositor{engine: engine, sounds: sounds}
}

// Render produces out from src applying all recognizable cues. Unknown
// effect codes, missing sound presets and unparsable timestamps are skipped
// with a warning; the render always proceeds with what it understands.
func (c *Compositor) Render(ctx context.Context, src, out string, cues []script.Cue) error {
	texts, rest := splitCues(cues)

	base := src
	if len(texts) > 0 {
		target := out
		if len(rest) > 0 {
			// Second pass reads the burn-in result, so it cannot share out.
			tmp := out + ".overlay.mp4"
			defer func() { _ = fileops.Remove(tmp) }()
			target = tmp
		}
		logger.Infof("🖋️  Burning %d text overlay(s)...", len(texts))
		if err := c.engine.BurnText(ctx, base, target, texts); err != nil {
			return fmt.Errorf("text overlay pass: %w", err)
		}
		base = target
	}

	if len(texts) == 0 || len(rest) > 0 {
		var duration float64
		if len(rest) > 0 {
			d, err := c.engine.Probe(ctx, src)
			if err != nil {
				logger.Warnf("⚠️ Could not probe %s, cue ranges unclamped: %v", src, err)
			} else {
				duration = d
			}
		}

		graph, audioInputs := c.buildGraph(rest, duration)
		if graph != "" {
			logger.Infof("🎞️  Compositing %d effect cue(s)...", len(rest))
		}
		if err := c.engine.Composite(ctx, base, audioInputs, graph, out); err != nil {
			return fmt.Errorf("effect pass: %w", err)
		}
	}

	return nil
}

// splitCues separates drawtext overlay directives from effect/sound cues,
// preserving discovery order inside each group.
func splitCues(cues []script.Cue) (texts []string, rest []script.Cue) {
	for _, cue := range cues {
		if strings.HasPrefix(cue.Code, "drawtext=") {
			texts = append(texts, cue.Code)
			continue
		}
		rest = append(rest, cue)
	}
	return texts, rest
}

// buildGraph assembles one filter graph for all effect and sound cues.
// Discovery order is layering order: earlier cues sit below later ones.
// Ranges are clamped to the media duration when it is known (non-zero).
// The graph labels its outputs [vout] and, when sounds exist, [aout].
func (c *Compositor) buildGraph(cues []script.Cue, duration float64) (string, []string) {
	type visual struct {
		start, end float64
		filter     string
	}
	type sound struct {
		start, end float64
		path       string
	}

	var visuals []visual
	var sounds []sound

	for _, cue := range cues {
		start, err := script.ParseTimecode(cue.Start)
		if err != nil {
			logger.Warnf("⚠️ Skipping cue with bad start %q: %v", cue.Start, err)
			continue
		}
		end, err := script.ParseTimecode(cue.End)
		if err != nil {
			logger.Warnf("⚠️ Skipping cue with bad end %q: %v", cue.End, err)
			continue
		}
		if end < start {
			logger.Warnf("⚠️ Skipping cue with inverted range [%s - %s]", cue.Start, cue.End)
			continue
		}
		if duration > 0 {
			if start >= duration {
				logger.Warnf("⚠️ Skipping cue past end of media [%s - %s]", cue.Start, cue.End)
				continue
			}
			if end > duration {
				end = duration
			}
		}

		name := script.CueName(cue.Code)
		switch {
		case strings.HasPrefix(name, "FX_"):
			fx, ok := effects.Lookup(strings.TrimPrefix(name, "FX_"))
			if !ok {
				logger.Warnf("⚠️ Unknown visual effect %q, skipping", name)
				continue
			}
			visuals = append(visuals, visual{
				start:  start,
				end:    end,
				filter: fx.Filter(end-start, script.CueParams(cue.Code)),
			})
		case strings.HasPrefix(name, "SFX_"):
			path, ok := c.sounds.Path(strings.TrimPrefix(name, "SFX_"))
			if !ok {
				logger.Warnf("⚠️ Sound preset for %q not found, skipping", name)
				continue
			}
			sounds = append(sounds, sound{start: start, end: end, path: path})
		default:
			logger.Warnf("⚠️ Unrecognized cue %q, skipping", cue.Code)
		}
	}

	if len(visuals) == 0 && len(sounds) == 0 {
		return "", nil
	}

	var parts []string

	// Video chain: carve each range out of the base, transform it, shift it
	// back to its original offset and overlay it on the running result.
	prev := "[0:v]"
	for i, v := range visuals {
		parts = append(parts, fmt.Sprintf(
			"[0:v]trim=start=%.3f:end=%.3f,setpts=PTS-STARTPTS,%s,setpts=PTS+%.3f/TB[fx%d]",
			v.start, v.end, v.filter, v.start, i,
		))
		parts = append(parts, fmt.Sprintf("%s[fx%d]overlay=eof_action=pass[v%d]", prev, i, i))
		prev = fmt.Sprintf("[v%d]", i)
	}
	parts = append(parts, prev+"null[vout]")

	var audioInputs []string
	if len(sounds) > 0 {
		labels := []string{"[0:a]"}
		for j, s := range sounds {
			audioInputs = append(audioInputs, s.path)
			dur := s.end - s.start
			fade := 0.1
			if fade > dur/2 {
				fade = dur / 2
			}
			delayMs := int(s.start * 1000)
			parts = append(parts, fmt.Sprintf(
				"[%d:a]atrim=0:%.3f,afade=t=in:d=%.3f,afade=t=out:st=%.3f:d=%.3f,adelay=%d|%d[sfx%d]",
				j+1, dur, fade, dur-fade, fade, delayMs, delayMs, j,
			))
			labels = append(labels, fmt.Sprintf("[sfx%d]", j))
		}
		parts = append(parts, fmt.Sprintf(
			"%samix=inputs=%d:duration=first:dropout_transition=0[aout]",
			strings.Join(labels, ""), len(labels),
		))
	}

	return strings.Join(parts, ";"), audioInputs
}
