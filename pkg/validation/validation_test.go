package validation

import (
	"strings"
	"testing"
)

func TestValidateEntityID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid uuid-like", "5f0c2b8e-9d1a-4f7b-8a6c-1e2d3c4b5a69", false},
		{"valid plain", "creator_42", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"path traversal", "../etc/passwd", true},
		{"whitespace", "creator 42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntityID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntityID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"valid lowercase", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", false},
		{"valid checksummed", "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B", false},
		{"empty", "", true},
		{"no prefix", "ab5801a7d398351b8be11c439e05c5b3259aec9b", true},
		{"too short", "0xab5801", true},
		{"non-hex", "0xzz5801a7d398351b8be11c439e05c5b3259aec9b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWalletAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWalletAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeWalletAddress(t *testing.T) {
	got := NormalizeWalletAddress("  0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B ")
	want := "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	if got != want {
		t.Errorf("NormalizeWalletAddress() = %s, want %s", got, want)
	}
}
