package bubbles

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRadius(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		label string
		want  float64
	}{
		{"", 20},
		{"PC", 20},
		{"2D", 20},
		{"Rust", 32},
		{"Unity", 40},
		{"Platformer", 80},
		{"A very extremely long tag label exceeding budget", 80},
		{"日本語", 24},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := Radius(tt.label, p)
			if got != tt.want {
				t.Errorf("Radius(%q) = %v, want %v", tt.label, got, tt.want)
			}
			if again := Radius(tt.label, p); again != got {
				t.Errorf("Radius(%q) not deterministic: %v then %v", tt.label, got, again)
			}
		})
	}
}

func TestRadiusCustomBounds(t *testing.T) {
	p := DefaultParams()
	p.RadiusPerChar = 10
	p.MinRadius = 35
	p.MaxRadius = 60

	if got := Radius("ab", p); got != 35 {
		t.Errorf("short label = %v, want 35", got)
	}
	if got := Radius("abcd", p); got != 40 {
		t.Errorf("mid label = %v, want 40", got)
	}
	if got := Radius("abcdefghij", p); got != 60 {
		t.Errorf("long label = %v, want 60", got)
	}
}

func TestTruncateLabel(t *testing.T) {
	long := "A very extremely long tag label exceeding budget"
	r := Radius(long, DefaultParams())
	budget := CharBudget(r)

	got := TruncateLabel(long, r)
	if n := utf8.RuneCountInString(got); n > budget {
		t.Errorf("truncated length %d exceeds budget %d", n, budget)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("truncated label %q should end with %q", got, Ellipsis)
	}
	if !strings.HasPrefix(long, strings.TrimSuffix(got, Ellipsis)) {
		t.Errorf("truncated label %q is not a prefix of the original", got)
	}
}

func TestTruncateLabelFits(t *testing.T) {
	tests := []struct {
		label  string
		radius float64
		want   string
	}{
		{"Unity", 40, "Unity"},
		{"Chilling", 64, "Chilling"},
		{"Platformer", 20, "Pl..."},
		{"abcdef", 4, "..."},
		{"ab", 4, "ab"},
		{"ピクセルアートゲーム", 20, "ピク..."},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := TruncateLabel(tt.label, tt.radius); got != tt.want {
				t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.radius, got, tt.want)
			}
		})
	}
}

func TestFontSize(t *testing.T) {
	if got := FontSize(20); got != 10 {
		t.Errorf("FontSize(20) = %v, want 10", got)
	}
	if got := FontSize(80); got != 20 {
		t.Errorf("FontSize(80) = %v, want 20 (capped)", got)
	}
}
