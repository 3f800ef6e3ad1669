package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Node is one node of an upstream AST artifact: a rooted ordered labeled
// tree of {"type": str, "children": [...]} objects. Trees are ephemeral
// inputs to a single comparison and carry no position or identity beyond
// their shape.
type Node struct {
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`
}

// CountNodes returns the number of nodes in the subtree rooted at n,
// counting n itself. A nil node is the empty tree of size 0. Iterative so
// deep artifact trees cannot exhaust the goroutine stack.
func (n *Node) CountNodes() int {
	if n == nil {
		return 0
	}
	count := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		for _, c := range cur.Children {
			if c != nil {
				stack = append(stack, c)
			}
		}
	}
	return count
}

// ParseAST decodes an AST artifact. A JSON null decodes to the empty tree.
func ParseAST(r io.Reader) (*Node, error) {
	var root *Node
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding AST: %w", err)
	}
	return root, nil
}

// LoadASTFile reads and decodes the AST artifact at path.
func LoadASTFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	root, err := ParseAST(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// String renders the node label and child count for diagnostics.
func (n *Node) String() string {
	if n == nil {
		return "<empty>"
	}
	return fmt.Sprintf("%s[%d]", n.Type, len(n.Children))
}
