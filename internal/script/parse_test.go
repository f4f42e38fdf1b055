package script

import (
	"os"
	"testing"

	"github.com/Clifford9547/Reno-AI-Video-Editor/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

func TestParse_InterleavesTextAndInstructions(t *testing.T) {
	segs := Parse("Hello {FX_FLASH(duration=0.5,color=red)} world {SFX_WHOOSH} end")

	want := []struct {
		kind SegmentKind
		text string
		code string
	}{
		{SegmentText, "Hello", ""},
		{SegmentVisual, "", "FLASH"},
		{SegmentText, "world", ""},
		{SegmentSound, "", "WHOOSH"},
		{SegmentText, "end", ""},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(want), segs)
	}
	for i, w := range want {
		if segs[i].Kind != w.kind {
			t.Fatalf("segment %d kind = %s, want %s", i, segs[i].Kind, w.kind)
		}
		if segs[i].Text != w.text {
			t.Fatalf("segment %d text = %q, want %q", i, segs[i].Text, w.text)
		}
		if segs[i].Code != w.code {
			t.Fatalf("segment %d code = %q, want %q", i, segs[i].Code, w.code)
		}
	}

	fx := segs[1]
	if got, ok := fx.Params["duration"].(float64); !ok || got != 0.5 {
		t.Fatalf("duration param = %#v, want 0.5", fx.Params["duration"])
	}
	if got, ok := fx.Params["color"].(string); !ok || got != "red" {
		t.Fatalf("color param = %#v, want \"red\"", fx.Params["color"])
	}
}

func TestParse_AssociatesPrecedingTimestampOnLine(t *testing.T) {
	text := "[00:00:01.000 - 00:00:03.000] {FX_FLASH}\n[00:00:05.500 - 00:00:06.500] {SFX_WHOOSH}"
	segs := Parse(text)

	var instr []Segment
	for _, s := range segs {
		if s.Kind != SegmentText {
			instr = append(instr, s)
		}
	}
	if len(instr) != 2 {
		t.Fatalf("got %d instructions, want 2", len(instr))
	}
	if instr[0].Start != "00:00:01.000" || instr[0].End != "00:00:03.000" {
		t.Fatalf("flash range = [%s - %s]", instr[0].Start, instr[0].End)
	}
	if instr[1].Start != "00:00:05.500" || instr[1].End != "00:00:06.500" {
		t.Fatalf("whoosh range = [%s - %s]", instr[1].Start, instr[1].End)
	}

	// A placeholder on a line without any timestamp has no range.
	segs = Parse("no time here {SFX_CHIME}")
	last := segs[len(segs)-1]
	if last.Start != "" || last.End != "" {
		t.Fatalf("expected empty range, got [%s - %s]", last.Start, last.End)
	}
}

func TestParse_DuplicatesPreserved(t *testing.T) {
	segs := Parse("{SFX_WHOOSH}{SFX_WHOOSH}")
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2 duplicates preserved", len(segs))
	}
}

func TestParse_EmptyTextSegmentsDropped(t *testing.T) {
	segs := Parse("  {FX_FLASH}   {SFX_WHOOSH}  ")
	for _, s := range segs {
		if s.Kind == SegmentText {
			t.Fatalf("unexpected text segment %q", s.Text)
		}
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
}

func TestParseParams_LiteralCoercionOnly(t *testing.T) {
	tests := []struct {
		name string
		blob string
		key  string
		want any
	}{
		{"bool true", "loop=true", "loop", true},
		{"bool python-cased", "loop=False", "loop", false},
		{"int", "count=3", "count", 3},
		{"float", "duration=0.5", "duration", 0.5},
		{"single quoted", "color='red'", "color", "red"},
		{"double quoted", `label="hi there"`, "label", "hi there"},
		{"bare string", "color=red", "color", "red"},
		{"adversarial stays string", "cmd=__import__('os')", "cmd", "__import__('os')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ParseParams(tt.blob)
			if got := params[tt.key]; got != tt.want {
				t.Fatalf("param %q = %#v (%T), want %#v", tt.key, got, got, tt.want)
			}
		})
	}
}

func TestParseParams_QuotedCommaStaysOnePair(t *testing.T) {
	params := ParseParams("text='a, b',size=12")
	if got := params["text"]; got != "a, b" {
		t.Fatalf("text = %#v, want \"a, b\"", got)
	}
	if got := params["size"]; got != 12 {
		t.Fatalf("size = %#v, want 12", got)
	}
}

func TestParseParams_FailureYieldsEmptySet(t *testing.T) {
	if params := ParseParams("no pairs at all"); len(params) != 0 {
		t.Fatalf("expected empty params, got %v", params)
	}
	// Partially malformed blob keeps the good pairs.
	params := ParseParams("good=1,broken")
	if len(params) != 1 || params["good"] != 1 {
		t.Fatalf("expected only the good pair, got %v", params)
	}
}
