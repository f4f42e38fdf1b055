package ffmpegcli

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/config"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

// Adapter drives ffmpeg/ffprobe subprocesses as the media engine.
type Adapter struct {
	ffmpeg   string
	ffprobe  string
	fontFile string
}

func New(cfg config.RenderConfig) *Adapter {
	ffmpeg := cfg.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := cfg.FFprobePath
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpeg, ffprobe: ffprobe, fontFile: cfg.FontFile}
}

func (a *Adapter) ExtractAudio(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Probe(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// BurnText applies all drawtext overlays in a single -vf pass with the
// audio track copied unmodified. The configured font file replaces whatever
// the LLM guessed, since its fontfile paths never exist on this host.
func (a *Adapter) BurnText(ctx context.Context, in, out string, drawtext []string) error {
	filters := make([]string, 0, len(drawtext))
	for _, d := range drawtext {
		if a.fontFile != "" && !strings.Contains(d, "fontfile=") {
			d = d + ":fontfile='" + escapeFilterPath(a.fontFile) + "'"
		}
		filters = append(filters, d)
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vf", strings.Join(filters, ","),
		"-c:a", "copy",
		out,
	)
	logger.Debugf("  ffmpeg burn-in: %s", strings.Join(cmd.Args, " "))
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg text overlay: %w\n%s", err, string(b))
	}
	return nil
}

// Composite runs a filter graph over the input plus extra audio inputs.
// The graph must label [vout], and [aout] when audio inputs are present.
// An empty graph is a plain stream-copy remux.
func (a *Adapter) Composite(ctx context.Context, in string, audioInputs []string, graph string, out string) error {
	args := []string{"-y", "-i", in}
	for _, p := range audioInputs {
		args = append(args, "-i", p)
	}

	if graph == "" {
		args = append(args, "-c", "copy", out)
	} else {
		args = append(args, "-filter_complex", graph, "-map", "[vout]")
		if len(audioInputs) > 0 {
			args = append(args, "-map", "[aout]")
		} else {
			args = append(args, "-map", "0:a?", "-c:a", "copy")
		}
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "18",
		)
		if len(audioInputs) > 0 {
			args = append(args, "-c:a", "aac", "-b:a", "192k")
		}
		args = append(args, out)
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	logger.Debugf("  ffmpeg composite: %s", strings.Join(cmd.Args, " "))
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg composite: %w\n%s", err, string(b))
	}
	return nil
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
