package render

import "context"

// Engine abstracts the media toolchain used to extract, layer and encode
// video. The compositor builds filter graphs; the engine only runs them.
type Engine interface {
	// ExtractAudio writes the source's audio track as mono 16kHz WAV.
	ExtractAudio(ctx context.Context, in, outWav string) error

	// Probe returns the media duration in seconds.
	Probe(ctx context.Context, in string) (float64, error)

	// BurnText renders all drawtext overlays in one pass, audio untouched.
	BurnText(ctx context.Context, in, out string, drawtext []string) error

	// Composite runs a filter graph over the input plus extra audio inputs.
	// An empty graph remuxes the input to out unchanged.
	Composite(ctx context.Context, in string, audioInputs []string, graph string, out string) error
}
