package analyzer

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/clonesieve/clonesieve/internal/parser"
)

// HashPair carries the two content digests of one submission.
type HashPair struct {
	T1Hash string `json:"t1_hash"`
	T2Hash string `json:"t2_hash"`
}

// ComputeT1Hash digests the normalized source text. Files whose normalized
// bytes match exactly are Type-1 clones.
func ComputeT1Hash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// ComputeT2Hash digests the canonicalized token stream. Files that match
// here but not on T1 differ only in identifier and literal naming.
func ComputeT2Hash(tokens []parser.Token) string {
	sum := sha256.Sum256([]byte(CanonicalizeTokens(tokens)))
	return hex.EncodeToString(sum[:])
}

// ComputeHashPair computes both digests for one submission.
func ComputeHashPair(source []byte, tokens []parser.Token) HashPair {
	return HashPair{
		T1Hash: ComputeT1Hash(source),
		T2Hash: ComputeT2Hash(tokens),
	}
}
