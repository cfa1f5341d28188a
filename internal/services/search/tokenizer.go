package search

import (
	"regexp"
	"strings"
)

// stopWords are dropped from parsed queries. Matching the content side is
// substring-based, so filtering these on the query side is enough.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// Letters, digits and underscore count as word characters in any script.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// ParseQuery turns a raw query string into normalized search terms:
// lowercased, punctuation stripped, whitespace split, with stop words and
// tokens of length <= 2 removed. Order is preserved and duplicates are
// permitted. Pure function; an empty query yields no terms.
func ParseQuery(query string) []string {
	clean := nonWord.ReplaceAllString(strings.ToLower(query), " ")

	var terms []string
	for _, token := range strings.Fields(clean) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}
