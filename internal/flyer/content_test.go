package flyer

import (
	"reflect"
	"strings"
	"testing"
)

func TestCompose_Empty(t *testing.T) {
	c := Compose(Extract(""))
	if c.Title != "Beautiful Home for Sale" {
		t.Fatalf("Title=%q", c.Title)
	}
	if c.Subtitle != "Prime Location" {
		t.Fatalf("Subtitle=%q", c.Subtitle)
	}
	if len(c.Features) != 0 || len(c.Details) != 0 {
		t.Fatalf("expected no features/details, got %v / %v", c.Features, c.Details)
	}
	if c.CallToAction != "Call today to schedule a viewing!" {
		t.Fatalf("CallToAction=%q", c.CallToAction)
	}
}

func TestCompose_TitleBranches(t *testing.T) {
	cases := []struct {
		f    Facts
		want string
	}{
		{Facts{Bedrooms: 3, SquareFootage: 3400}, "3 Bedroom, 3400 sq ft Home"},
		{Facts{Bedrooms: 2}, "2 Bedroom Home"},
		{Facts{SquareFootage: 900}, "Beautiful Home for Sale"},
		{Facts{Bathrooms: 1}, "Beautiful Home for Sale"},
	}
	for _, tc := range cases {
		if got := Compose(tc.f).Title; got != tc.want {
			t.Fatalf("Compose(%+v).Title=%q, want %q", tc.f, got, tc.want)
		}
	}
}

func TestCompose_FullListing(t *testing.T) {
	c := Compose(Facts{
		Bedrooms:      4,
		Bathrooms:     2,
		SquareFootage: 2600,
		Location:      "Santa Fe",
		Amenities:     []string{"garage", "hardwood floors"},
	})
	if c.Subtitle != "Located in Santa Fe" {
		t.Fatalf("Subtitle=%q", c.Subtitle)
	}
	wantFeatures := []string{"4 Bedrooms", "2 Bathrooms", "2600 sq ft", "Garage", "Hardwood floors"}
	if !reflect.DeepEqual(c.Features, wantFeatures) {
		t.Fatalf("Features=%v, want %v", c.Features, wantFeatures)
	}
	wantDetails := []string{
		"• 4 spacious bedrooms",
		"• 2 modern bathrooms",
		"• 2600 square feet of living space",
		"• Garage",
		"• Hardwood floors",
	}
	if !reflect.DeepEqual(c.Details, wantDetails) {
		t.Fatalf("Details=%v, want %v", c.Details, wantDetails)
	}
}

func TestCompose_LengthInvariant(t *testing.T) {
	inputs := []string{
		"",
		"Beautiful large 3 bedroom, and swimming pool, 3400 sq ft, home for sale at Albany 12034",
		"2 bathroom flat with balcony and fireplace",
		"1500 sq ft, garden, garage, balcony",
		"10 bedroom 8 bathroom 9000 sq ft estate with swimming pool, garage, garden, balcony, fireplace, hardwood floors in Malibu",
		"!!! ,,, 12345 ???",
	}
	for _, in := range inputs {
		f := Extract(in)
		c := Compose(f)
		want := len(f.Amenities)
		for _, n := range []int{f.Bedrooms, f.Bathrooms, f.SquareFootage} {
			if n > 0 {
				want++
			}
		}
		if len(c.Features) != want || len(c.Details) != want {
			t.Fatalf("%q: features=%d details=%d, want %d", in, len(c.Features), len(c.Details), want)
		}
		for _, d := range c.Details {
			if !strings.HasPrefix(d, "• ") {
				t.Fatalf("%q: detail %q missing bullet", in, d)
			}
		}
	}
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"swimming pool": "Swimming pool",
		"garage":        "Garage",
		"":              "",
		"élan":          "Élan",
		"Already":       "Already",
	}
	for in, want := range cases {
		if got := Capitalize(in); got != want {
			t.Fatalf("Capitalize(%q)=%q, want %q", in, got, want)
		}
	}
}
