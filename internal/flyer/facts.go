package flyer

import (
	"regexp"
	"strconv"
	"strings"
)

// Facts is the structured record extracted from a free-text property
// description. Zero values mean "not mentioned".
type Facts struct {
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	SquareFootage int      `json:"squareFootage"`
	Location      string   `json:"location"`
	Amenities     []string `json:"amenities"`
}

// AmenityKeywords is the fixed scan order for amenity detection.
var AmenityKeywords = []string{
	"swimming pool",
	"garage",
	"garden",
	"balcony",
	"fireplace",
	"hardwood floors",
}

// jsSpace is the whitespace set of browser regular expressions, which is
// wider than RE2's ASCII-only \s. Listings pasted from web pages often carry
// no-break spaces.
const jsSpace = `[\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	bedroomsRe  = regexp.MustCompile(`(\d+)` + jsSpace + `*` + asciiFold("bedroom"))
	bathroomsRe = regexp.MustCompile(`(\d+)` + jsSpace + `*` + asciiFold("bathroom"))
	sqftRe      = regexp.MustCompile(`(\d+)` + jsSpace + `*` + asciiFold("sq") + jsSpace + `*` + asciiFold("ft"))
	// "at Albany 12034", "in Springfield": a run without digits or commas,
	// ended by a zip code or the end of the text.
	locationRe = regexp.MustCompile(`(?:` + asciiFold("at") + `|` + asciiFold("in") + `)` + jsSpace + `+([^,\d]+?)(?:` +
		jsSpace + `+\d{5}|` + jsSpace + `*$)`)
)

// asciiFold matches word case-insensitively over ASCII letters only. RE2's
// (?i) folds Unicode too, so "ſq ft" would count as square feet.
func asciiFold(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r >= 'a' && r <= 'z' {
			b.WriteString("[" + string(r-'a'+'A') + string(r) + "]")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}

func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

// Extract scans description and returns the facts it mentions. Each rule is
// independent and only its leftmost match is used. Extract never fails:
// anything it cannot read stays at its zero value.
func Extract(description string) Facts {
	f := Facts{
		Bedrooms:      firstInt(bedroomsRe, description),
		Bathrooms:     firstInt(bathroomsRe, description),
		SquareFootage: firstInt(sqftRe, description),
		Amenities:     []string{},
	}
	if m := locationRe.FindStringSubmatch(description); len(m) == 2 {
		f.Location = strings.TrimFunc(m[1], isJSSpace)
	}
	lower := strings.ToLower(description)
	for _, kw := range AmenityKeywords {
		if strings.Contains(lower, kw) {
			f.Amenities = append(f.Amenities, kw)
		}
	}
	return f
}

// firstInt returns the integer captured by the leftmost match of re, or 0
// when there is no match or the digits do not fit in an int.
func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if len(m) != 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
