package errors

import (
	"strings"
	"testing"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "electricity", false},
		{"valid with dash", "steam-power", false},
		{"valid with spaces", "Basic Smithing", false},
		{"valid unicode", "Fertilität", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", MaxItemIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateItemID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateCacheKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid layout key", "layout:3f2a9c", false},
		{"valid scoped key", "dev:layout:00ff", false},

		{"empty", "", true},
		{"upper case", "layout:ABC", true},
		{"path traversal", "../etc/passwd", true},
		{"too long", "layout:" + strings.Repeat("a", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCacheKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCacheKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{"explicit json", "json", "items.txt", "json", false},
		{"explicit yml", "YML", "", "yaml", false},
		{"inferred toml", "", "tree.toml", "toml", false},
		{"inferred yaml", "", "dir/tree.yaml", "yaml", false},
		{"inferred uppercase", "", "TREE.JSON", "json", false},

		{"no extension", "", "items", "", true},
		{"unsupported", "xml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateInputFormat(tt.format, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInputFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateInputFormat() = %q, want %q", got, tt.want)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateInputFormat() code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/layout.svg", false},
		{"valid absolute", "/tmp/layout.dot", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "out\x00.svg", true},
		{"newline", "out\n.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", false},
		{"redis tls", "rediss://cache.internal:6380", false},
		{"mongo", "mongodb://localhost:27017", false},
		{"mongo srv", "mongodb+srv://cluster.example.net", false},

		{"empty", "", true},
		{"http", "http://localhost", true},
		{"no scheme", "localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
