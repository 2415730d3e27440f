package errors

import (
	"testing"
)

func TestValidateManifestPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means discover", "", false},
		{"bare", "Cargo.toml", false},
		{"nested", "crates/core/Cargo.toml", false},
		{"absolute", "/src/project/Cargo.toml", false},

		{"lowercase", "cargo.toml", true},
		{"directory", "crates/core", true},
		{"other toml", "pyproject.toml", true},
		{"control char", "Cargo\x01.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateManifestPath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateCrateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "serde", false},
		{"underscore", "serde_json", false},
		{"dash", "async-trait", false},
		{"leading underscore", "_private", false},

		{"empty", "", true},
		{"leading digit", "1password", true},
		{"space", "serde json", true},
		{"dot", "serde.json", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCrateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCrateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
