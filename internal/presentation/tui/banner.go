package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the vine ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// green to teal, top to bottom
	lines := []struct {
		text  string
		color string
	}{
		{"        _            ", "#4ade80"},
		{" __   _(_)_ __   ___ ", "#34d399"},
		{" \\ \\ / / | '_ \\ / _ \\", "#2dd4bf"},
		{"  \\ V /| | | | |  __/", "#22d3ee"},
		{"   \\_/ |_|_| |_|\\___|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
