package effects

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SoundLibrary resolves SFX_ placeholder codes to preset audio files.
type SoundLibrary struct {
	dir string
}

func NewSoundLibrary(dir string) *SoundLibrary {
	return &SoundLibrary{dir: dir}
}

// Path returns the preset file for a sound code (without the SFX_ prefix).
func (l *SoundLibrary) Path(code string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(code))
	if name == "" {
		return "", false
	}
	p := filepath.Join(l.dir, name+".mp3")
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// Catalog lists available preset sounds for prompt generation, keyed by code.
func (l *SoundLibrary) Catalog() map[string]string {
	out := map[string]string{}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp3") {
			continue
		}
		code := strings.ToUpper(strings.TrimSuffix(e.Name(), ".mp3"))
		out[code] = fmt.Sprintf("preset sound: %s", e.Name())
	}
	return out
}
