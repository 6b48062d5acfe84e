package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the sortstep ASCII art banner to Stdout.
func PrintBanner() {
	FprintBanner(os.Stdout)
}

// FprintBanner writes the banner to w, colored for w's terminal profile.
func FprintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Bars rising from red to green, like a run finishing.
	lines := []struct {
		text  string
		color string
	}{
		{"                 _       _                ", "#e74c3c"},
		{"  ___  ___  _ __| |_ ___| |_ ___ _ __     ", "#e67e22"},
		{" / __|/ _ \\| '__| __/ __| __/ _ \\ '_ \\    ", "#f1c40f"},
		{" \\__ \\ (_) | |  | |_\\__ \\ ||  __/ |_) |   ", "#3498db"},
		{" |___/\\___/|_|   \\__|___/\\__\\___| .__/    ", "#1abc9c"},
		{"                                |_|       ", "#2ecc71"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
