package errors

import (
	"strings"
	"testing"
)

func TestValidateStructureID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "42", false},
		{"slug", "holding-2024", false},
		{"with dot", "acme.v2", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStructureID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStructureID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidStructureID) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidStructureID)
			}
		})
	}
}

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"entity", "entity_12", false},
		{"edge", "entity_1_entity_2", false},
		{"unicode", "sociedade_ação", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 257), true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
