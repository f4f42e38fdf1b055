package version

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Version holds the current build version. Override with
// -ldflags "-X github.com/Clifford9547/Reno-AI-Video-Editor/internal/version.Version=v1.2.3".
var Version = "dev"

const (
	separator = "────────────────────────────────────────────────────────────"
	banner    = `
  _ __ ___ _ __   ___
 | '__/ _ \ '_ \ / _ \
 | | |  __/ | | | (_) |
 |_|  \___|_| |_|\___/
`
)

// Banner returns the ASCII-art project banner.
func Banner() string {
	return strings.Trim(banner, "\n")
}

// PrintBanner writes the decorated banner and version info to w (stdout if nil).
func PrintBanner(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, Banner())
	fmt.Fprintf(w, "\n  reno %s\n", Version)
	fmt.Fprintf(w, "  AI Video Editing Pipeline\n")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w)
}
