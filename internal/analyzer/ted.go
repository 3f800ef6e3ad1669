package analyzer

// TreeEditDistance computes edit distances between rooted ordered labeled
// trees with a recursive alignment DP: the distance of two nodes aligns
// their child lists with a 2-D edit-distance table whose substitution cost
// recurses into subtree distance. This is not the Zhang-Shasha keyroot
// algorithm; the alignment formulation is pseudo-polynomial in the tree
// sizes, so candidate filtering must run before scoring at corpus scale.
// Any faster algorithm must reproduce these distances exactly before it
// can replace this one.
type TreeEditDistance struct {
	costModel CostModel
}

// NewTreeEditDistance creates an engine with the given cost model.
// A nil model falls back to uniform unit costs.
func NewTreeEditDistance(costModel CostModel) *TreeEditDistance {
	if costModel == nil {
		costModel = NewDefaultCostModel()
	}
	return &TreeEditDistance{costModel: costModel}
}

// ComputeDistance computes the tree edit distance between two trees.
// Either root may be nil, the empty tree.
func (ted *TreeEditDistance) ComputeDistance(tree1, tree2 *TreeNode) float64 {
	run := newDistanceRun(ted.costModel, tree1, tree2)
	return run.distance(tree1, tree2)
}

// ComputeSimilarity maps distance into [0, 1]: 1 minus the distance
// normalized by the cost of deleting all of tree1 and inserting all of
// tree2, which is the worst possible edit script. Two empty trees are
// identical, similarity 1.
func (ted *TreeEditDistance) ComputeSimilarity(tree1, tree2 *TreeNode) float64 {
	if tree1 == nil && tree2 == nil {
		return 1.0
	}
	run := newDistanceRun(ted.costModel, tree1, tree2)
	denominator := run.deleteSubtreeCost(tree1) + run.insertSubtreeCost(tree2)
	if denominator <= 0 {
		return 1.0
	}
	similarity := 1.0 - run.distance(tree1, tree2)/denominator
	if similarity < 0.0 {
		return 0.0
	}
	if similarity > 1.0 {
		return 1.0
	}
	return similarity
}

// distanceRun holds the per-invocation state of one distance computation:
// the postorder node arrays of both trees, precomputed whole-subtree
// insert/delete costs, and the memo table. Postorder IDs index a flat
// arena, so the memo is rebuilt from scratch for every comparison and IDs
// from one run can never poison another.
type distanceRun struct {
	costModel CostModel

	nodes1, nodes2 []*TreeNode

	// Whole-subtree operation costs indexed by postorder ID.
	deleteCosts []float64
	insertCosts []float64

	// memo[id1*len(nodes2)+id2] holds D(subtree1, subtree2); -1 is unset.
	memo []float64
}

func newDistanceRun(costModel CostModel, tree1, tree2 *TreeNode) *distanceRun {
	run := &distanceRun{
		costModel: costModel,
		nodes1:    indexPostOrder(tree1),
		nodes2:    indexPostOrder(tree2),
	}

	// Postorder visits children before parents, so subtree totals can be
	// accumulated in one pass.
	run.deleteCosts = make([]float64, len(run.nodes1))
	for _, n := range run.nodes1 {
		total := costModel.Delete(n)
		for _, child := range n.Children {
			total += run.deleteCosts[child.PostOrderID]
		}
		run.deleteCosts[n.PostOrderID] = total
	}
	run.insertCosts = make([]float64, len(run.nodes2))
	for _, n := range run.nodes2 {
		total := costModel.Insert(n)
		for _, child := range n.Children {
			total += run.insertCosts[child.PostOrderID]
		}
		run.insertCosts[n.PostOrderID] = total
	}

	run.memo = make([]float64, len(run.nodes1)*len(run.nodes2))
	for i := range run.memo {
		run.memo[i] = -1.0
	}
	return run
}

// deleteSubtreeCost is the cost of deleting the whole subtree at node,
// D(node, empty). A nil node costs nothing.
func (r *distanceRun) deleteSubtreeCost(node *TreeNode) float64 {
	if node == nil {
		return 0.0
	}
	return r.deleteCosts[node.PostOrderID]
}

// insertSubtreeCost is the cost of inserting the whole subtree at node,
// D(empty, node).
func (r *distanceRun) insertSubtreeCost(node *TreeNode) float64 {
	if node == nil {
		return 0.0
	}
	return r.insertCosts[node.PostOrderID]
}

// distance computes D(node1, node2) over the three edit options: rename
// the roots and align the child lists, delete node1's root and align its
// children against node2 whole, or insert node2's root and align node1
// whole against node2's children.
func (r *distanceRun) distance(node1, node2 *TreeNode) float64 {
	switch {
	case node1 == nil && node2 == nil:
		return 0.0
	case node1 == nil:
		return r.insertSubtreeCost(node2)
	case node2 == nil:
		return r.deleteSubtreeCost(node1)
	}

	key := node1.PostOrderID*len(r.nodes2) + node2.PostOrderID
	if v := r.memo[key]; v >= 0 {
		return v
	}

	best := r.costModel.Rename(node1, node2) + r.align(node1.Children, node2.Children)
	if v := r.costModel.Delete(node1) + r.align(node1.Children, []*TreeNode{node2}); v < best {
		best = v
	}
	if v := r.costModel.Insert(node2) + r.align([]*TreeNode{node1}, node2.Children); v < best {
		best = v
	}

	r.memo[key] = best
	return best
}

// align runs the 2-D edit-distance DP over two ordered node lists.
// Substituting list1[i] by list2[j] costs their recursive subtree distance;
// dropping or adding a list element costs its whole subtree.
func (r *distanceRun) align(list1, list2 []*TreeNode) float64 {
	prev := make([]float64, len(list2)+1)
	for j := 1; j <= len(list2); j++ {
		prev[j] = prev[j-1] + r.insertCosts[list2[j-1].PostOrderID]
	}

	for i := 1; i <= len(list1); i++ {
		cur := make([]float64, len(list2)+1)
		deleteRow := r.deleteCosts[list1[i-1].PostOrderID]
		cur[0] = prev[0] + deleteRow
		for j := 1; j <= len(list2); j++ {
			substitute := prev[j-1] + r.distance(list1[i-1], list2[j-1])
			remove := prev[j] + deleteRow
			add := cur[j-1] + r.insertCosts[list2[j-1].PostOrderID]
			cur[j] = min(substitute, remove, add)
		}
		prev = cur
	}
	return prev[len(list2)]
}
