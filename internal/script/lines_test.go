package script

import "testing"

func TestParseCues(t *testing.T) {
	text := `[00:00:01.000 - 00:00:03.000] {FX_FLASH(duration=0.5)}
[00:00:04.000 - 00:00:05.000] {SFX_WHOOSH}
[00:00:06.000 - 00:00:08.000] drawtext=text='Hello':fontsize=48:x=(w-text_w)/2:y=h-100
just narration, no timestamp
[00:00:09.000 - 00:00:10.000] nothing recognizable here`

	cues := ParseCues(text)
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3: %+v", len(cues), cues)
	}

	if cues[0].Start != "00:00:01.000" || cues[0].End != "00:00:03.000" {
		t.Fatalf("cue 0 range = [%s - %s]", cues[0].Start, cues[0].End)
	}
	if cues[0].Code != "FX_FLASH(duration=0.5)" {
		t.Fatalf("cue 0 code = %q", cues[0].Code)
	}
	if cues[1].Code != "SFX_WHOOSH" {
		t.Fatalf("cue 1 code = %q", cues[1].Code)
	}
	if cues[2].Code != "drawtext=text='Hello':fontsize=48:x=(w-text_w)/2:y=h-100" {
		t.Fatalf("cue 2 code = %q", cues[2].Code)
	}
}

func TestParseCues_Empty(t *testing.T) {
	if cues := ParseCues(""); len(cues) != 0 {
		t.Fatalf("expected no cues, got %+v", cues)
	}
	if cues := ParseCues("plain text\nmore text"); len(cues) != 0 {
		t.Fatalf("expected no cues, got %+v", cues)
	}
}

func TestCueName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"FX_FLASH(duration=0.5)", "FX_FLASH"},
		{"FX_ZOOM_IN", "FX_ZOOM_IN"},
		{"SFX_WHOOSH", "SFX_WHOOSH"},
		{"  FX_FLASH  ", "FX_FLASH"},
	}
	for _, tt := range tests {
		if got := CueName(tt.code); got != tt.want {
			t.Fatalf("CueName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCueParams(t *testing.T) {
	params := CueParams("FX_FLASH(duration=0.5,opacity=0.8)")
	if got := params["duration"]; got != 0.5 {
		t.Fatalf("duration = %#v", got)
	}
	if got := params["opacity"]; got != 0.8 {
		t.Fatalf("opacity = %#v", got)
	}

	if params := CueParams("SFX_WHOOSH"); len(params) != 0 {
		t.Fatalf("expected no params, got %v", params)
	}
	if params := CueParams("FX_BAD(unclosed"); len(params) != 0 {
		t.Fatalf("expected no params for unclosed blob, got %v", params)
	}
}
