package utils

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
var multiDash = regexp.MustCompile(`-+`)

// Nordic letters show up in most titles on the site; fold them before stripping.
var letterFolds = strings.NewReplacer(
	"å", "a", "ä", "a", "ö", "o",
	"æ", "ae", "ø", "o", "é", "e", "è", "e", "ü", "u",
	"'", "", "&", " and ", "/", " ", "_", " ",
)

// Slugify lower-cases input and reduces it to [a-z0-9-], with single dashes and
// none at either end.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = letterFolds.Replace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
