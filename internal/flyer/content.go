package flyer

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CallToAction closes every generated flyer.
const CallToAction = "Call today to schedule a viewing!"

const bullet = "• "

// Content is the presentation object rendered by previews and editors. The
// JSON names are shared with the remote generation service.
type Content struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	Features     []string `json:"features"`
	Details      []string `json:"details"`
	CallToAction string   `json:"callToAction"`
}

// Compose maps facts onto the fixed flyer templates.
func Compose(f Facts) Content {
	return Content{
		Title:        composeTitle(f),
		Subtitle:     composeSubtitle(f),
		Features:     composeFeatures(f),
		Details:      composeDetails(f),
		CallToAction: CallToAction,
	}
}

func composeTitle(f Facts) string {
	switch {
	case f.Bedrooms > 0 && f.SquareFootage > 0:
		return fmt.Sprintf("%d Bedroom, %d sq ft Home", f.Bedrooms, f.SquareFootage)
	case f.Bedrooms > 0:
		return fmt.Sprintf("%d Bedroom Home", f.Bedrooms)
	default:
		return "Beautiful Home for Sale"
	}
}

func composeSubtitle(f Facts) string {
	if f.Location != "" {
		return "Located in " + f.Location
	}
	return "Prime Location"
}

func composeFeatures(f Facts) []string {
	out := make([]string, 0, 3+len(f.Amenities))
	if f.Bedrooms > 0 {
		out = append(out, fmt.Sprintf("%d Bedrooms", f.Bedrooms))
	}
	if f.Bathrooms > 0 {
		out = append(out, fmt.Sprintf("%d Bathrooms", f.Bathrooms))
	}
	if f.SquareFootage > 0 {
		out = append(out, fmt.Sprintf("%d sq ft", f.SquareFootage))
	}
	for _, a := range f.Amenities {
		out = append(out, Capitalize(a))
	}
	return out
}

func composeDetails(f Facts) []string {
	out := make([]string, 0, 3+len(f.Amenities))
	if f.Bedrooms > 0 {
		out = append(out, fmt.Sprintf("%s%d spacious bedrooms", bullet, f.Bedrooms))
	}
	if f.Bathrooms > 0 {
		out = append(out, fmt.Sprintf("%s%d modern bathrooms", bullet, f.Bathrooms))
	}
	if f.SquareFootage > 0 {
		out = append(out, fmt.Sprintf("%s%d square feet of living space", bullet, f.SquareFootage))
	}
	for _, a := range f.Amenities {
		out = append(out, bullet+Capitalize(a))
	}
	return out
}

// Capitalize upper-cases the first character of s and leaves the rest as is.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
