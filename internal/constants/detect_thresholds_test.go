package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectionDefaults(t *testing.T) {
	t.Run("Constants have expected values", func(t *testing.T) {
		assert.Equal(t, 0.7, DefaultT3SimilarityThreshold)
		assert.Equal(t, 3.0, DefaultMaxSizeRatio)
		assert.Equal(t, 1000, DefaultASTCacheSize)
		assert.Equal(t, 100, DefaultBatchSize)
	})

	t.Run("Threshold is a valid similarity", func(t *testing.T) {
		assert.GreaterOrEqual(t, DefaultT3SimilarityThreshold, 0.0)
		assert.LessOrEqual(t, DefaultT3SimilarityThreshold, 1.0)
	})

	t.Run("Symmetric edit costs", func(t *testing.T) {
		// Equal insert and delete keep similarity symmetric.
		assert.Equal(t, DefaultInsertCost, DefaultDeleteCost)
		assert.Positive(t, DefaultRenameCost)
	})
}

func TestCloneTypeNames(t *testing.T) {
	assert.Len(t, CloneTypeNames, 4)
	assert.Len(t, CloneTypeDescriptions, 4)
	for i := 1; i <= 4; i++ {
		assert.Contains(t, CloneTypeNames, i)
		assert.Contains(t, CloneTypeDescriptions, i)
	}
}
