package typegraph

import (
	"strings"
	"unicode"
)

// exportName turns an operation, fragment or field name into an exported
// identifier segment. Underscores and hyphens split words; existing inner
// capitalization is preserved so "heroForEpisode" becomes "HeroForEpisode".
func exportName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// composeName builds the deterministic name of a nested shape by
// appending the response key to the enclosing shape's name. Two
// structurally identical selections at different positions therefore get
// distinct, stable names.
func composeName(parent, key string) string {
	return parent + exportName(key)
}

// branchName names the record of one variant alternative.
func branchName(variant, typeName string) string {
	return variant + "On" + exportName(typeName)
}

// fallbackName names a variant's drift alternative.
func fallbackName(variant string) string {
	return variant + "Other"
}
