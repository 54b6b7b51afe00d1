package bubbles

import "unicode/utf8"

// Ellipsis marks a truncated label.
const Ellipsis = "..."

const maxFontSize = 20.0

// Radius returns the bubble radius for a label: RadiusPerChar per rune,
// clamped to [MinRadius, MaxRadius].
func Radius(label string, p Params) float64 {
	n := utf8.RuneCountInString(label)
	return clamp(p.RadiusPerChar*float64(n), p.MinRadius, p.MaxRadius)
}

// CharBudget is the number of characters that fit inside a bubble of the
// given radius, ellipsis included.
func CharBudget(radius float64) int {
	return max(len(Ellipsis), int(radius/4))
}

// TruncateLabel shortens label to fit CharBudget(radius), ending with
// Ellipsis when cut.
func TruncateLabel(label string, radius float64) string {
	budget := CharBudget(radius)
	if utf8.RuneCountInString(label) <= budget {
		return label
	}
	runes := []rune(label)
	return string(runes[:budget-len(Ellipsis)]) + Ellipsis
}

// FontSize scales with the radius up to 20px.
func FontSize(radius float64) float64 {
	return min(radius/2, maxFontSize)
}
