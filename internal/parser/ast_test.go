package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAST(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(*testing.T, *Node)
		wantErr bool
	}{
		{
			name:  "nested tree",
			input: `{"type":"Block","children":[{"type":"Decl","children":[]},{"type":"For","children":[{"type":"Expr"}]}]}`,
			check: func(t *testing.T, root *Node) {
				require.NotNil(t, root)
				assert.Equal(t, "Block", root.Type)
				require.Len(t, root.Children, 2)
				assert.Equal(t, "Decl", root.Children[0].Type)
				assert.Equal(t, "For", root.Children[1].Type)
				require.Len(t, root.Children[1].Children, 1)
				assert.Equal(t, "Expr", root.Children[1].Children[0].Type)
			},
		},
		{
			name:  "leaf without children key",
			input: `{"type":"Pass"}`,
			check: func(t *testing.T, root *Node) {
				require.NotNil(t, root)
				assert.Equal(t, "Pass", root.Type)
				assert.Empty(t, root.Children)
			},
		},
		{
			name:  "null is the empty tree",
			input: `null`,
			check: func(t *testing.T, root *Node) {
				assert.Nil(t, root)
			},
		},
		{
			name:    "malformed JSON",
			input:   `{"type":"Block","children":[`,
			wantErr: true,
		},
		{
			name:    "wrong shape",
			input:   `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseAST(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, root)
		})
	}
}

func TestCountNodes(t *testing.T) {
	var empty *Node
	assert.Equal(t, 0, empty.CountNodes())

	leaf := &Node{Type: "Pass"}
	assert.Equal(t, 1, leaf.CountNodes())

	tree := &Node{Type: "Block", Children: []*Node{
		{Type: "Decl"},
		{Type: "For", Children: []*Node{
			{Type: "Init"},
			{Type: "Cond"},
			{Type: "Body", Children: []*Node{{Type: "Expr"}}},
		}},
	}}
	assert.Equal(t, 7, tree.CountNodes())
}

func TestCountNodesDeepChain(t *testing.T) {
	// A degenerate 100k-deep chain must not overflow the stack.
	root := &Node{Type: "N"}
	cur := root
	for i := 0; i < 100000; i++ {
		next := &Node{Type: "N"}
		cur.Children = []*Node{next}
		cur = next
	}
	assert.Equal(t, 100001, root.CountNodes())
}

func TestLoadASTFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ast.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Block","children":[{"type":"Pass"}]}`), 0o644))

	root, err := LoadASTFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Block", root.Type)
	assert.Equal(t, 2, root.CountNodes())

	_, err = LoadASTFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
