package transcribe

import (
	"context"
	"strings"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/script"
)

// Transcriber converts an extracted audio track into timed text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcript, error)
}

// Segment is one timed narration fragment, times in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the full transcription result for one audio track.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// Script renders the transcript as the timestamped line format consumed by
// later stages: "[HH:MM:SS.mmm - HH:MM:SS.mmm] text" per segment.
func (t *Transcript) Script() string {
	lines := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		lines = append(lines, "["+script.FormatTimecode(seg.Start)+" - "+script.FormatTimecode(seg.End)+"] "+text)
	}
	return strings.Join(lines, "\n")
}
