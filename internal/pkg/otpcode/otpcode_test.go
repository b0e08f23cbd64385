package otpcode

import (
	"strconv"
	"testing"
)

func TestNumericGenerateWidth(t *testing.T) {
	gen := NewNumeric(6)

	for i := 0; i < 200; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		if _, err := strconv.Atoi(code); err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
	}
}

func TestNumericFallbackWidth(t *testing.T) {
	cases := []int{0, -3, 3, 11}
	for _, digits := range cases {
		gen := NewNumeric(digits)
		if gen.Digits() != 6 {
			t.Fatalf("NewNumeric(%d).Digits() = %d, want fallback 6", digits, gen.Digits())
		}
	}

	if got := NewNumeric(8).Digits(); got != 8 {
		t.Fatalf("NewNumeric(8).Digits() = %d, want 8", got)
	}
}
