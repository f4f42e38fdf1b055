package ffmpegcli

import (
	"testing"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/config"
)

func TestNewDefaultsBinaries(t *testing.T) {
	a := New(config.RenderConfig{})
	if a.ffmpeg != "ffmpeg" || a.ffprobe != "ffprobe" {
		t.Fatalf("binaries = %q, %q", a.ffmpeg, a.ffprobe)
	}

	a = New(config.RenderConfig{FFmpegPath: "/opt/ffmpeg", FFprobePath: "/opt/ffprobe"})
	if a.ffmpeg != "/opt/ffmpeg" || a.ffprobe != "/opt/ffprobe" {
		t.Fatalf("binaries = %q, %q", a.ffmpeg, a.ffprobe)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/usr/share/fonts/arial.ttf", "/usr/share/fonts/arial.ttf"},
		{"C:\\fonts\\arial.ttf", "C\\:\\\\fonts\\\\arial.ttf"},
		{"a:b", "a\\:b"},
	}
	for _, tt := range tests {
		if got := escapeFilterPath(tt.in); got != tt.want {
			t.Fatalf("escapeFilterPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
