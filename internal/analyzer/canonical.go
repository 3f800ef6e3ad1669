package analyzer

import (
	"strconv"
	"strings"

	"github.com/clonesieve/clonesieve/internal/parser"
)

// CanonicalizeTokens maps a token stream to its renaming-invariant canonical
// form. Every distinct Identifier value becomes id<k> and every distinct
// Literal value becomes lit<k>, where k counts first occurrences within the
// stream, 1-based, with independent counters per category. All other token
// categories pass through verbatim, including categories this package has
// never heard of. Tokens are joined with single spaces.
//
// Two streams that differ only by a consistent renaming of identifiers and
// literals therefore canonicalize to the same string.
func CanonicalizeTokens(tokens []parser.Token) string {
	identifiers := make(map[string]string)
	literals := make(map[string]string)

	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case tok.IsIdentifier():
			parts = append(parts, canonicalName(identifiers, "id", tok.Value))
		case tok.IsLiteral():
			parts = append(parts, canonicalName(literals, "lit", tok.Value))
		default:
			parts = append(parts, tok.Value)
		}
	}
	return strings.Join(parts, " ")
}

// canonicalName returns the stable placeholder for value, assigning the next
// 1-based index on first occurrence.
func canonicalName(seen map[string]string, prefix, value string) string {
	if name, ok := seen[value]; ok {
		return name
	}
	name := prefix + strconv.Itoa(len(seen)+1)
	seen[value] = name
	return name
}
