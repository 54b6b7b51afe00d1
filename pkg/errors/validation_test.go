package errors

import (
	"math"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"default canvas", 500, 350, false},
		{"tiny", 1, 1, false},
		{"zero width", 0, 350, true},
		{"zero height", 500, 0, true},
		{"negative", -10, 350, true},
		{"nan", math.NaN(), 350, true},
		{"inf", 500, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("expected INVALID_DIMENSIONS, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePalette(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"single hex", []string{"#3798ff"}, false},
		{"rgba", []string{"rgba(100, 100, 100, 1)", "rgba(9,255,50,1)"}, false},
		{"nil", nil, true},
		{"empty", []string{}, true},
		{"blank entry", []string{"#fff", "  "}, true},
		{"markup", []string{`red" onload="x`}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePalette(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePalette(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"https", "https://example.com", false},
		{"http", "http://example.com/play", false},
		{"itch", "https://1067838263.itch.io/morph", false},

		{"empty", "", true},
		{"javascript", "javascript:alert(1)", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "example.com", true},
		{"space", "https://example.com/a b", true},
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

func TestValidateShowcaseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "morph", false},
		{"dash", "knight-and-spear", false},
		{"underscore", "shader_playground", false},

		{"empty", "", true},
		{"upper", "Morph", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShowcaseName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShowcaseName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	if err := ValidateLabel("Unity"); err != nil {
		t.Errorf("ValidateLabel(Unity) = %v", err)
	}
	if err := ValidateLabel(""); err != nil {
		t.Errorf("empty label should be allowed: %v", err)
	}
	if err := ValidateLabel("bad\nlabel"); err == nil {
		t.Error("label with newline should fail")
	}
}
