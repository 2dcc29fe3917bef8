package gibscript

import "testing"

func TestDetectANSISupport(t *testing.T) {
	tests := map[string]bool{
		"":               false,
		"dumb":           false,
		"xterm-256color": true,
		"screen":         true,
		"someterm":       true,
	}

	for termType, want := range tests {
		if got := detectANSISupport(termType); got != want {
			t.Errorf("detectANSISupport(%q): expected %v, got %v", termType, want, got)
		}
	}
}
