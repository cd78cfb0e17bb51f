package utils

import (
	"strings"
	"testing"
)

func TestGeneratePairingCode(t *testing.T) {
	code := GeneratePairingCode(8)
	if len(code) != 8 {
		t.Fatalf("code length = %d, want 8", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(pairingCharset, c) {
			t.Errorf("code %q contains %q outside the charset", code, c)
		}
	}
	if strings.ContainsAny(code, "0O1Il") {
		t.Errorf("code %q contains an ambiguous character", code)
	}

	if a, b := GeneratePairingCode(8), GeneratePairingCode(8); a == b {
		t.Errorf("two codes in a row came out identical: %q", a)
	}
}
