package domain

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	DefaultPublicBaseURL = "https://linkme.io/"
	PlaceholderSlug      = "your-smart-identity"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lower-cases and trims name, turns each whitespace run into a
// single hyphen and strips everything outside [a-z0-9-]. Whitespace includes
// vertical tab, no-break space and the other Unicode space separators.
// Punctuation next to spaces is removed after the hyphen is placed, so
// "O'Brien & Co." becomes "obrien--co".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimFunc(name, isSlugSpace))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

func isSlugSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// ProfileURL joins baseURL and the slug of name. A name with no usable
// characters yields the placeholder URL rather than a bare base URL.
func ProfileURL(baseURL, name string) string {
	if baseURL == "" {
		baseURL = DefaultPublicBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	slug := Slugify(name)
	if slug == "" {
		slug = PlaceholderSlug
	}
	return baseURL + slug
}
