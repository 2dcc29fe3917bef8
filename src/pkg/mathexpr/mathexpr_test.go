package mathexpr

import (
	"errors"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2+3", 5},
		{"2 * (3 + 4)", 14},
		{"7 / 2", 3.5},
		{"2 ^ 10", 1024},
		{"10 % 4", 2},
		{"-3 + 1", -2},
		{"3 > 2", 1},
		{"3 < 2", 0},
		{"1 && 0", 0},
		{"int(7.9)", 7},
		{"sqrt(16)", 4},
		{"1 == 1 ? 10 : 20", 10},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) returned error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateRejects(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"1 +",
		"(1 + 2",
		"1 + 2)",
		"foo + 1",
		"system(\"ls\")",
		"1; exit",
		"1 / 0",
		"getline",
		"$1",
	}

	for _, expr := range bad {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(expr)
			if err == nil {
				t.Fatalf("Expected error for %q", expr)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := map[float64]string{
		5:           "5",
		0.5:         "0.5",
		-2:          "-2",
		1.0 / 3.0:   "0.3333333333",
		12345678901: "1.23456789e+10",
		1e-05:       "1e-05",
	}
	for in, want := range tests {
		if got := Format(in); got != want {
			t.Errorf("Format(%v) = %q, want %q", in, got, want)
		}
	}
}
