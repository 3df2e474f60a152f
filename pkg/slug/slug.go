package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Latin letters with diacritics that commonly show up in product titles.
var transliterate = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
	"ç", "c", "č", "c",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ğ", "g",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n",
	"ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
	"ş", "s", "š", "s", "ß", "ss",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ý", "y", "ÿ", "y",
	"ž", "z",
	"&", " and ",
)

// Generate creates a URL-friendly slug from the given title.
//
// Examples:
//   - "Crème Brûlée Mug" → "creme-brulee-mug"
//   - "Shirts & Tees" → "shirts-and-tees"
//   - "Hello   World!" → "hello-world"
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = transliterate.Replace(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already a canonical slug: lowercase ASCII
// letters and digits separated by single hyphens.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}
