package analyzer

// CostModel defines the interface for calculating edit operation costs.
// Costs must be non-negative.
type CostModel interface {
	// Insert returns the cost of inserting a node
	Insert(node *TreeNode) float64

	// Delete returns the cost of deleting a node
	Delete(node *TreeNode) float64

	// Rename returns the cost of renaming node1 to node2
	Rename(node1, node2 *TreeNode) float64
}

// DefaultCostModel implements a uniform cost model where all operations cost 1.0
type DefaultCostModel struct{}

// NewDefaultCostModel creates a new default cost model
func NewDefaultCostModel() *DefaultCostModel {
	return &DefaultCostModel{}
}

// Insert returns the cost of inserting a node (always 1.0)
func (c *DefaultCostModel) Insert(node *TreeNode) float64 {
	return 1.0
}

// Delete returns the cost of deleting a node (always 1.0)
func (c *DefaultCostModel) Delete(node *TreeNode) float64 {
	return 1.0
}

// Rename returns the cost of renaming node1 to node2. Identical labels
// rename for free.
func (c *DefaultCostModel) Rename(node1, node2 *TreeNode) float64 {
	if node1 == nil || node2 == nil {
		return 1.0
	}
	if node1.Label == node2.Label {
		return 0.0
	}
	return 1.0
}

// WeightedCostModel carries configurable per-operation costs. Rename still
// costs nothing when labels already match.
type WeightedCostModel struct {
	InsertCost float64
	DeleteCost float64
	RenameCost float64
}

// NewWeightedCostModel creates a cost model with custom operation costs
func NewWeightedCostModel(insertCost, deleteCost, renameCost float64) *WeightedCostModel {
	return &WeightedCostModel{
		InsertCost: insertCost,
		DeleteCost: deleteCost,
		RenameCost: renameCost,
	}
}

// Insert returns the configured insertion cost
func (c *WeightedCostModel) Insert(node *TreeNode) float64 {
	return c.InsertCost
}

// Delete returns the configured deletion cost
func (c *WeightedCostModel) Delete(node *TreeNode) float64 {
	return c.DeleteCost
}

// Rename returns the configured rename cost, or zero for matching labels
func (c *WeightedCostModel) Rename(node1, node2 *TreeNode) float64 {
	if node1 == nil || node2 == nil {
		return c.RenameCost
	}
	if node1.Label == node2.Label {
		return 0.0
	}
	return c.RenameCost
}
