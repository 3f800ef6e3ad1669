package analyzer

import (
	"fmt"

	"github.com/clonesieve/clonesieve/internal/parser"
)

// TreeNode represents a node in the ordered labeled tree handed to the
// edit-distance engine. Trees are comparison-local: they are rebuilt from
// the AST artifact for every comparison, and their postorder indices are
// never reused across independent comparisons.
type TreeNode struct {
	// Label for the node (the AST node type)
	Label string

	// Tree structure
	Children []*TreeNode

	// PostOrderID is the dense postorder position assigned by indexing,
	// valid only within one comparison.
	PostOrderID int

	subtreeSize int
}

// NewTreeNode creates a new tree node with the given label
func NewTreeNode(label string) *TreeNode {
	return &TreeNode{
		Label:    label,
		Children: []*TreeNode{},
	}
}

// AddChild adds a child node to this node
func (t *TreeNode) AddChild(child *TreeNode) {
	if child != nil {
		t.Children = append(t.Children, child)
	}
}

// IsLeaf returns true if this node has no children
func (t *TreeNode) IsLeaf() bool {
	return len(t.Children) == 0
}

// Size returns the number of nodes in the subtree rooted at this node.
func (t *TreeNode) Size() int {
	if t == nil {
		return 0
	}
	if t.subtreeSize > 0 {
		return t.subtreeSize
	}
	size := 1
	for _, child := range t.Children {
		size += child.Size()
	}
	return size
}

// String returns a string representation of the node
func (t *TreeNode) String() string {
	return fmt.Sprintf("Node{Label: %s, Children: %d}", t.Label, len(t.Children))
}

// indexPostOrder assigns dense postorder IDs and subtree sizes below root
// and returns all nodes in postorder. A nil root is the empty tree.
func indexPostOrder(root *TreeNode) []*TreeNode {
	if root == nil {
		return nil
	}
	nodes := make([]*TreeNode, 0, root.Size())
	var walk func(n *TreeNode) int
	walk = func(n *TreeNode) int {
		size := 1
		for _, child := range n.Children {
			size += walk(child)
		}
		n.PostOrderID = len(nodes)
		n.subtreeSize = size
		nodes = append(nodes, n)
		return size
	}
	walk(root)
	return nodes
}

// TreeConverter builds comparison-local trees from AST artifacts
type TreeConverter struct{}

// NewTreeConverter creates a new tree converter
func NewTreeConverter() *TreeConverter {
	return &TreeConverter{}
}

// ConvertAST converts an AST artifact node into a fresh TreeNode tree.
// The artifact is left untouched, so a cached AST can be shared across
// sequential comparisons while each comparison gets its own tree.
func (tc *TreeConverter) ConvertAST(root *parser.Node) *TreeNode {
	if root == nil {
		return nil
	}
	node := NewTreeNode(root.Type)
	for _, child := range root.Children {
		if converted := tc.ConvertAST(child); converted != nil {
			node.AddChild(converted)
		}
	}
	return node
}
