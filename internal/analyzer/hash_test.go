package analyzer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clonesieve/clonesieve/internal/parser"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestComputeT1Hash(t *testing.T) {
	a := ComputeT1Hash([]byte("int main() { return 0; }"))
	b := ComputeT1Hash([]byte("int main() { return 0; }"))
	c := ComputeT1Hash([]byte("int main() { return 1; }"))

	assert.Regexp(t, hexDigest, a)
	assert.Equal(t, a, b, "identical sources must hash identically")
	assert.NotEqual(t, a, c, "different sources must hash differently")

	// Known SHA-256 vector.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		ComputeT1Hash(nil))
}

func TestComputeT2Hash(t *testing.T) {
	// int sum = a + b;  and  int total = x + y;  share canonical structure.
	sum := []parser.Token{
		tok("Keyword", "int"),
		tok("Identifier", "sum"),
		tok("Operator", "="),
		tok("Identifier", "a"),
		tok("Operator", "+"),
		tok("Identifier", "b"),
		tok("Separator", ";"),
	}
	total := []parser.Token{
		tok("Keyword", "int"),
		tok("Identifier", "total"),
		tok("Operator", "="),
		tok("Identifier", "x"),
		tok("Operator", "+"),
		tok("Identifier", "y"),
		tok("Separator", ";"),
	}
	different := []parser.Token{
		tok("Keyword", "int"),
		tok("Identifier", "sum"),
		tok("Operator", "="),
		tok("Identifier", "a"),
		tok("Operator", "-"),
		tok("Identifier", "b"),
		tok("Separator", ";"),
	}

	assert.Regexp(t, hexDigest, ComputeT2Hash(sum))
	assert.Equal(t, ComputeT2Hash(sum), ComputeT2Hash(total))
	assert.NotEqual(t, ComputeT2Hash(sum), ComputeT2Hash(different))
}

func TestComputeHashPair(t *testing.T) {
	source := []byte("x = 1")
	tokens := []parser.Token{
		tok("Identifier", "x"),
		tok("Operator", "="),
		tok("Literal", "1"),
	}

	pair := ComputeHashPair(source, tokens)
	assert.Equal(t, ComputeT1Hash(source), pair.T1Hash)
	assert.Equal(t, ComputeT2Hash(tokens), pair.T2Hash)
	assert.NotEqual(t, pair.T1Hash, pair.T2Hash)
}
