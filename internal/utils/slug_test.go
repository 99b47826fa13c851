package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Web Design":              "web-design",
		"  SEO & Marketing  ":     "seo-and-marketing",
		"Över gränsen":            "over-gransen",
		"UI/UX":                   "ui-ux",
		"already-a-slug":          "already-a-slug",
		"--Trailing!!--":          "trailing",
		"!!!":                     "",
		"Let's build_it":          "lets-build-it",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
