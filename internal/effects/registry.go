package effects

import (
	"fmt"
	"sort"
	"strings"
)

// FilterFunc builds the video-filter directive for one timed occurrence of
// an effect. The clip it applies to is already trimmed to the instruction
// range and rebased to t=0; dur is the instruction duration in seconds.
type FilterFunc func(dur float64, params map[string]any) string

// VisualEffect is one registered visual transform.
type VisualEffect struct {
	Code        string
	Description string
	ParamsInfo  map[string]string
	Filter      FilterFunc
}

// registry is the static effect library offered to the LLM.
var registry = map[string]VisualEffect{
	"FLASH": {
		Code:        "FLASH",
		Description: "Short white flash over the selected range",
		ParamsInfo: map[string]string{
			"duration": "fade in/out length in seconds",
			"opacity":  "flash brightness boost (0-1)",
		},
		Filter: flashFilter,
	},
	"ZOOM_IN": {
		Code:        "ZOOM_IN",
		Description: "Progressive zoom over the selected range",
		ParamsInfo: map[string]string{
			"final_zoom": "target scale factor",
		},
		Filter: zoomInFilter,
	},
}

// Lookup resolves an effect code (without the FX_ prefix).
func Lookup(code string) (VisualEffect, bool) {
	fx, ok := registry[strings.ToUpper(strings.TrimSpace(code))]
	return fx, ok
}

// Catalog lists the registered effects for prompt generation, keyed by code.
func Catalog() map[string]string {
	out := make(map[string]string, len(registry))
	for code, fx := range registry {
		keys := make([]string, 0, len(fx.ParamsInfo))
		for k := range fx.ParamsInfo {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out[code] = fmt.Sprintf("%s (params: %s)", fx.Description, strings.Join(keys, ", "))
	}
	return out
}

func flashFilter(dur float64, params map[string]any) string {
	fade := floatParam(params, "duration", 0.3)
	if fade > dur/2 {
		fade = dur / 2
	}
	opacity := floatParam(params, "opacity", 0.8)
	return fmt.Sprintf(
		"fade=t=in:st=0:d=%.3f,fade=t=out:st=%.3f:d=%.3f,eq=brightness=%.2f",
		fade, dur-fade, fade, opacity/2,
	)
}

func zoomInFilter(dur float64, params map[string]any) string {
	zoom := floatParam(params, "final_zoom", 1.1)
	if dur <= 0 {
		dur = 1
	}
	// Linear scale 1.0 -> zoom across the clip, cropped back to source size.
	return fmt.Sprintf(
		"scale=w='iw*(1+%.3f*t/%.3f)':h='ih*(1+%.3f*t/%.3f)':eval=frame,crop=w=iw/(1+%.3f*t/%.3f):h=ih/(1+%.3f*t/%.3f)",
		zoom-1, dur, zoom-1, dur, zoom-1, dur, zoom-1, dur,
	)
}

func floatParam(params map[string]any, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}
