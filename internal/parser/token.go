package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Token categories emitted by the upstream tokenizer. The set is open:
// categories outside this list are carried through detection untouched.
const (
	CategoryIdentifier = "Identifier"
	CategoryLiteral    = "Literal"
	CategoryKeyword    = "Keyword"
	CategoryOperator   = "Operator"
	CategorySeparator  = "Separator"
)

// Token is one element of an upstream token stream.
type Token struct {
	Category string `json:"type"`
	Value    string `json:"value"`
}

// UnmarshalJSON accepts scalar literal values (numbers, booleans) in the
// value field and carries them as their verbatim source text.
func (t *Token) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Category = aux.Type
	if len(aux.Value) == 0 || string(aux.Value) == "null" {
		t.Value = ""
		return nil
	}
	if aux.Value[0] == '"' {
		var s string
		if err := json.Unmarshal(aux.Value, &s); err != nil {
			return err
		}
		t.Value = s
		return nil
	}
	t.Value = string(aux.Value)
	return nil
}

// IsIdentifier reports whether the token names an identifier.
func (t Token) IsIdentifier() bool { return t.Category == CategoryIdentifier }

// IsLiteral reports whether the token is a literal of any sub-kind.
func (t Token) IsLiteral() bool { return t.Category == CategoryLiteral }

// ParseTokenStream decodes a token stream artifact, a JSON array of
// {"type": ..., "value": ...} objects in source order.
func ParseTokenStream(r io.Reader) ([]Token, error) {
	var tokens []Token
	dec := json.NewDecoder(r)
	if err := dec.Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decoding token stream: %w", err)
	}
	return tokens, nil
}

// LoadTokenFile reads and decodes the token stream artifact at path.
func LoadTokenFile(path string) ([]Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tokens, err := ParseTokenStream(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tokens, nil
}

// String renders the token for diagnostics.
func (t Token) String() string {
	return t.Category + "(" + strconv.Quote(t.Value) + ")"
}
