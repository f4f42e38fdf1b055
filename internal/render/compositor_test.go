package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/effects"
	"github.com/Clifford9547/Reno-AI-Video-Editor/internal/script"
	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

type engineCall struct {
	op          string
	in, out     string
	drawtext    []string
	audioInputs []string
	graph       string
}

type fakeEngine struct {
	calls    []engineCall
	probeDur float64
}

func (e *fakeEngine) ExtractAudio(ctx context.Context, in, outWav string) error {
	e.calls = append(e.calls, engineCall{op: "extract", in: in, out: outWav})
	return nil
}

func (e *fakeEngine) Probe(ctx context.Context, in string) (float64, error) {
	if e.probeDur > 0 {
		return e.probeDur, nil
	}
	return 60, nil
}

func (e *fakeEngine) BurnText(ctx context.Context, in, out string, drawtext []string) error {
	e.calls = append(e.calls, engineCall{op: "burntext", in: in, out: out, drawtext: drawtext})
	return nil
}

func (e *fakeEngine) Composite(ctx context.Context, in string, audioInputs []string, graph string, out string) error {
	e.calls = append(e.calls, engineCall{op: "composite", in: in, out: out, audioInputs: audioInputs, graph: graph})
	return nil
}

// soundDir creates a preset directory with the given lowercase sound names.
func soundDir(t *testing.T, names ...string) *effects.SoundLibrary {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n+".mp3"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return effects.NewSoundLibrary(dir)
}

func TestRender_TextOnlySinglePass(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, soundDir(t))

	cues := []script.Cue{
		{Start: "00:00:01.000", End: "00:00:03.000", Code: "drawtext=text='Hi':fontsize=48"},
	}
	if err := c.Render(context.Background(), "in.mp4", "out.mp4", cues); err != nil {
		t.Fatal(err)
	}

	if len(eng.calls) != 1 || eng.calls[0].op != "burntext" {
		t.Fatalf("calls = %+v, want single burntext pass", eng.calls)
	}
	if eng.calls[0].in != "in.mp4" || eng.calls[0].out != "out.mp4" {
		t.Fatalf("burntext %s -> %s", eng.calls[0].in, eng.calls[0].out)
	}
}

func TestRender_TwoPassChainsThroughTempFile(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, soundDir(t))

	cues := []script.Cue{
		{Start: "00:00:01.000", End: "00:00:03.000", Code: "drawtext=text='Hi'"},
		{Start: "00:00:05.000", End: "00:00:07.000", Code: "FX_FLASH(duration=0.5)"},
	}
	if err := c.Render(context.Background(), "in.mp4", "out.mp4", cues); err != nil {
		t.Fatal(err)
	}

	if len(eng.calls) != 2 {
		t.Fatalf("calls = %+v, want burntext then composite", eng.calls)
	}
	burn, comp := eng.calls[0], eng.calls[1]
	if burn.op != "burntext" || comp.op != "composite" {
		t.Fatalf("pass order = %s, %s", burn.op, comp.op)
	}
	if burn.out == "out.mp4" {
		t.Fatal("burn-in pass must not write the final output directly")
	}
	if comp.in != burn.out {
		t.Fatalf("composite reads %q, burn-in wrote %q", comp.in, burn.out)
	}
	if comp.out != "out.mp4" {
		t.Fatalf("composite out = %q", comp.out)
	}
	if !strings.Contains(comp.graph, "[vout]") {
		t.Fatalf("graph missing [vout] label: %q", comp.graph)
	}
}

// burnThenFailEngine materializes the burn-in output on disk and then fails
// the effect pass.
type burnThenFailEngine struct {
	fakeEngine
}

func (e *burnThenFailEngine) BurnText(ctx context.Context, in, out string, drawtext []string) error {
	if err := os.WriteFile(out, []byte("burned"), 0o644); err != nil {
		return err
	}
	return e.fakeEngine.BurnText(ctx, in, out, drawtext)
}

func (e *burnThenFailEngine) Composite(ctx context.Context, in string, audioInputs []string, graph string, out string) error {
	return errors.New("encoder crashed")
}

func TestRender_FailedEffectPassRemovesTempFile(t *testing.T) {
	eng := &burnThenFailEngine{}
	c := New(eng, soundDir(t))

	dir := t.TempDir()
	out := filepath.Join(dir, "out.mp4")
	cues := []script.Cue{
		{Start: "00:00:01.000", End: "00:00:02.000", Code: "drawtext=text='Hi'"},
		{Start: "00:00:03.000", End: "00:00:04.000", Code: "FX_FLASH"},
	}

	err := c.Render(context.Background(), "in.mp4", out, cues)
	if err == nil {
		t.Fatal("expected effect pass failure")
	}
	if _, statErr := os.Stat(out + ".overlay.mp4"); !os.IsNotExist(statErr) {
		t.Fatalf("overlay temp file left behind after failure: %v", statErr)
	}
}

func TestRender_UnknownCodesSkippedRenderProceeds(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, soundDir(t))

	cues := []script.Cue{
		{Start: "00:00:01.000", End: "00:00:02.000", Code: "FX_NO_SUCH_EFFECT"},
		{Start: "00:00:03.000", End: "00:00:04.000", Code: "SFX_MISSING_PRESET"},
		{Start: "00:00:05.000", End: "00:00:06.000", Code: "FX_FLASH"},
		{Start: "garbage", End: "00:00:08.000", Code: "FX_FLASH"},
		{Start: "00:00:09.000", End: "00:00:07.000", Code: "FX_FLASH"}, // inverted
	}
	if err := c.Render(context.Background(), "in.mp4", "out.mp4", cues); err != nil {
		t.Fatal(err)
	}

	if len(eng.calls) != 1 || eng.calls[0].op != "composite" {
		t.Fatalf("calls = %+v", eng.calls)
	}
	graph := eng.calls[0].graph
	if strings.Count(graph, "overlay=") != 1 {
		t.Fatalf("want exactly one surviving visual layer, graph = %q", graph)
	}
	if len(eng.calls[0].audioInputs) != 0 {
		t.Fatalf("missing preset must contribute no audio input: %v", eng.calls[0].audioInputs)
	}
}

func TestRender_NoCuesRemuxes(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, soundDir(t))

	if err := c.Render(context.Background(), "in.mp4", "out.mp4", nil); err != nil {
		t.Fatal(err)
	}
	if len(eng.calls) != 1 || eng.calls[0].op != "composite" || eng.calls[0].graph != "" {
		t.Fatalf("calls = %+v, want one empty-graph composite", eng.calls)
	}
}

func TestBuildGraph_ShortSoundFadeClamped(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, soundDir(t, "click"))

	cues := []script.Cue{
		{Start: "00:00:01.000", End: "00:00:01.050", Code: "SFX_CLICK"},
	}
	if err := c.Render(context.Background(), "in.mp4", "out.mp4", cues); err != nil {
		t.Fatal(err)
	}

	graph := eng.calls[0].graph
	// A 50ms cue cannot carry two 100ms fades; both clamp to half the cue.
	if !strings.Contains(graph, "afade=t=in:d=0.025") {
		t.Fatalf("fade-in not clamped: %q", graph)
	}
	if !strings.Contains(graph, "afade=t=out:st=0.025:d=0.025") {
		t.Fatalf("fade-out start went negative: %q", graph)
	}
}

func TestRender_CuesClampedToMediaDuration(t *testing.T) {
	eng := &fakeEngine{probeDur: 10}
	c := New(eng, soundDir(t))

	cues := []script.Cue{
		{Start: "00:00:08.000", End: "00:00:15.000", Code: "FX_FLASH"}, // runs past the end
		{Start: "00:00:12.000", End: "00:00:14.000", Code: "FX_FLASH"}, // entirely past the end
	}
	if err := c.Render(context.Background(), "in.mp4", "out.mp4", cues); err != nil {
		t.Fatal(err)
	}

	graph := eng.calls[0].graph
	if strings.Count(graph, "overlay=") != 1 {
		t.Fatalf("want one surviving layer, graph = %q", graph)
	}
	if !strings.Contains(graph, "trim=start=8.000:end=10.000") {
		t.Fatalf("range not clamped to media duration: %q", graph)
	}
}

func TestBuildGraph_LayeringAndAudio(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, soundDir(t, "whoosh"))

	cues := []script.Cue{
		{Start: "00:00:01.000", End: "00:00:03.000", Code: "FX_FLASH(duration=0.5)"},
		{Start: "00:00:04.000", End: "00:00:06.000", Code: "FX_ZOOM_IN(final_zoom=1.2)"},
		{Start: "00:00:02.500", End: "00:00:04.000", Code: "SFX_WHOOSH"},
	}
	if err := c.Render(context.Background(), "in.mp4", "out.mp4", cues); err != nil {
		t.Fatal(err)
	}

	comp := eng.calls[len(eng.calls)-1]
	graph := comp.graph

	// Discovery order is layering order: fx0 overlays before fx1.
	fx0 := strings.Index(graph, "[fx0]overlay")
	fx1 := strings.Index(graph, "[fx1]overlay")
	if fx0 < 0 || fx1 < 0 || fx0 > fx1 {
		t.Fatalf("layer order wrong in graph: %q", graph)
	}
	if !strings.Contains(graph, "trim=start=1.000:end=3.000") {
		t.Fatalf("first clip range missing: %q", graph)
	}
	if !strings.Contains(graph, "setpts=PTS+1.000/TB") {
		t.Fatalf("first clip offset shift missing: %q", graph)
	}

	// Sound: preset wired as extra input, delayed to its start.
	if len(comp.audioInputs) != 1 || !strings.HasSuffix(comp.audioInputs[0], "whoosh.mp3") {
		t.Fatalf("audio inputs = %v", comp.audioInputs)
	}
	if !strings.Contains(graph, "adelay=2500|2500") {
		t.Fatalf("sound delay missing: %q", graph)
	}
	if !strings.Contains(graph, "amix=inputs=2") {
		t.Fatalf("amix missing: %q", graph)
	}
	if !strings.Contains(graph, "[aout]") {
		t.Fatalf("graph missing [aout]: %q", graph)
	}
}
