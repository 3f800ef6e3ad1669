package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clonesieve/clonesieve/internal/parser"
)

func tok(category, value string) parser.Token {
	return parser.Token{Category: category, Value: value}
}

func TestCanonicalizeTokens(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []parser.Token
		expected string
	}{
		{
			name:     "empty stream",
			tokens:   nil,
			expected: "",
		},
		{
			name: "identifiers numbered by first occurrence",
			tokens: []parser.Token{
				tok("Identifier", "a"),
				tok("Identifier", "b"),
				tok("Identifier", "a"),
				tok("Identifier", "c"),
			},
			expected: "id1 id2 id1 id3",
		},
		{
			name: "independent counters per category",
			tokens: []parser.Token{
				tok("Identifier", "sum"),
				tok("Operator", "="),
				tok("Literal", "0"),
				tok("Separator", ";"),
				tok("Identifier", "sum"),
				tok("Operator", "+="),
				tok("Literal", "1"),
			},
			expected: "id1 = lit1 ; id1 += lit2",
		},
		{
			name: "keywords and separators verbatim",
			tokens: []parser.Token{
				tok("Keyword", "for"),
				tok("Separator", "("),
				tok("Identifier", "i"),
				tok("Operator", "="),
				tok("Literal", "0"),
				tok("Separator", ")"),
			},
			expected: "for ( id1 = lit1 )",
		},
		{
			name: "unknown category passes through",
			tokens: []parser.Token{
				tok("Comment", "/*x*/"),
				tok("Identifier", "x"),
			},
			expected: "/*x*/ id1",
		},
		{
			name: "identifier and literal sharing a value stay separate",
			tokens: []parser.Token{
				tok("Identifier", "x"),
				tok("Literal", "x"),
			},
			expected: "id1 lit1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalizeTokens(tt.tokens))
		})
	}
}

func TestCanonicalizeTokensDeterministic(t *testing.T) {
	tokens := []parser.Token{
		tok("Keyword", "int"),
		tok("Identifier", "sum"),
		tok("Operator", "="),
		tok("Identifier", "a"),
		tok("Operator", "+"),
		tok("Identifier", "b"),
		tok("Separator", ";"),
	}

	first := CanonicalizeTokens(tokens)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CanonicalizeTokens(tokens))
	}
}

func TestCanonicalizeTokensRenamingInvariant(t *testing.T) {
	// int sum = a + b;  vs  int total = x + y;
	original := []parser.Token{
		tok("Keyword", "int"),
		tok("Identifier", "sum"),
		tok("Operator", "="),
		tok("Identifier", "a"),
		tok("Operator", "+"),
		tok("Identifier", "b"),
		tok("Separator", ";"),
	}
	renamed := []parser.Token{
		tok("Keyword", "int"),
		tok("Identifier", "total"),
		tok("Operator", "="),
		tok("Identifier", "x"),
		tok("Operator", "+"),
		tok("Identifier", "y"),
		tok("Separator", ";"),
	}

	assert.Equal(t, CanonicalizeTokens(original), CanonicalizeTokens(renamed))
	assert.Equal(t, "int id1 = id2 + id3 ;", CanonicalizeTokens(original))
}

func TestCanonicalizeTokensDistinguishesStructure(t *testing.T) {
	// Reusing an identifier is structurally different from introducing a
	// fresh one, so canonical forms must diverge.
	reused := []parser.Token{
		tok("Identifier", "a"),
		tok("Operator", "+"),
		tok("Identifier", "a"),
	}
	fresh := []parser.Token{
		tok("Identifier", "a"),
		tok("Operator", "+"),
		tok("Identifier", "b"),
	}

	assert.NotEqual(t, CanonicalizeTokens(reused), CanonicalizeTokens(fresh))
}
