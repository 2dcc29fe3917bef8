package gibscript

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether stdin is an interactive terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// TerminalWidth returns the width of stdout in columns, or 80 when unknown
func TerminalWidth() int {
	if !IsTerminal() {
		return 80
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// OutputSupportsColor reports whether ANSI color may be written to stdout
func OutputSupportsColor() bool {
	return IsTerminal() && colorAllowed()
}

// StderrSupportsColor reports whether stderr is a terminal that takes ANSI color
func StderrSupportsColor() bool {
	return term.IsTerminal(int(os.Stderr.Fd())) && colorAllowed()
}

// colorAllowed applies NO_COLOR (https://no-color.org/) and the TERM checks
func colorAllowed() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return detectANSISupport(os.Getenv("TERM"))
}

// detectANSISupport reports whether a TERM value may take ANSI escapes. Only
// an unset TERM and "dumb" are refused.
func detectANSISupport(termType string) bool {
	return termType != "" && termType != "dumb"
}
