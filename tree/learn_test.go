package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zap.AtomicLevel) (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core).Sugar(), logs
}

func TestSplitAtResolves(t *testing.T) {
	d := newTable(t, []int{0, 1, 0, 1}, []float64{1, math.NaN(), 3, 4})
	log, logs := observedLogger(zap.NewAtomicLevelAt(zap.WarnLevel))
	root, err := NewRoot(d, 0, Logger(log))
	require.NoError(t, err)

	require.NoError(t, root.SplitAt(1, []float64{2}))
	assert := assert.New(t)
	assert.True(root.Resolved())
	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal([]int{0}, children[0].Indices())
	assert.Equal([]int{2, 3}, children[1].Indices())
	assert.Equal([]int{1}, children[2].Indices())
	assert.Equal(1, logs.FilterMessageSnippet("Could not perform full split").Len())

	column, ok := root.SplitColumn()
	assert.True(ok)
	assert.Equal(1, column)
	assert.Equal([]float64{math.Inf(-1), 2, math.Inf(1)}, root.SplitThresholds())
}

func TestSplitAtEmptyInterval(t *testing.T) {
	d := newTable(t, []int{1, 1, 1, 0}, []float64{1, 2, 3, 4})
	log, logs := observedLogger(zap.NewAtomicLevelAt(zap.WarnLevel))
	root, err := NewRoot(d, 0, Logger(log))
	require.NoError(t, err)

	require.NoError(t, root.SplitAt(1, []float64{10, 2}))
	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, 2, children[0].NPoints())
	assert.Equal(t, 2, children[1].NPoints())
	assert.Equal(t, 0, children[2].NPoints())
	assert.Equal(t, 1, logs.FilterMessageSnippet("No observations in value range").Len())

	// an empty leaf predicts what its parent would
	require.NoError(t, children[2].Terminate())
	class, ok := children[2].PredictedClass()
	assert.True(t, ok)
	assert.Equal(t, 1, class)
}

func TestSplitAtWithoutRows(t *testing.T) {
	d := newTable(t, []int{0, 1}, []float64{1, 2})
	log, logs := observedLogger(zap.NewAtomicLevelAt(zap.WarnLevel))
	root, err := NewRoot(d, 0, Indices(), Logger(log))
	require.NoError(t, err)
	require.True(t, root.Resolved())

	require.NoError(t, root.SplitAt(1, []float64{1.5}))
	assert.Len(t, root.Children(), 2)
	assert.Equal(t, 0, logs.FilterMessageSnippet("already resolved").Len())
	assert.Equal(t, 2, logs.FilterMessageSnippet("No observations in value range").Len())
}

func TestSplitAtReplacesExistingSplit(t *testing.T) {
	d := newTable(t, []int{0, 0, 1, 1}, []float64{1, 2, 3, 4}, []float64{4, 3, 2, 1})
	log, logs := observedLogger(zap.NewAtomicLevelAt(zap.WarnLevel))
	root, err := NewRoot(d, 0, Logger(log))
	require.NoError(t, err)

	require.NoError(t, root.SplitAt(1, []float64{1.5, 3.5}))
	require.Len(t, root.Children(), 3)
	require.NoError(t, root.SplitAt(2, []float64{2.5}))

	assert := assert.New(t)
	assert.Equal(1, logs.FilterMessageSnippet("already resolved").Len())
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal([]int{2, 3}, children[0].Indices())
	assert.Equal([]int{0, 1}, children[1].Indices())
	assert.Equal([]int{0, 1, 2, 3}, root.IndicesDistributed())
	assert.Empty(root.IndicesRemaining())
	column, _ := root.SplitColumn()
	assert.Equal(2, column)

	// a terminal node is reopened by a manual split
	leaf := children[0]
	require.NoError(t, leaf.Terminate())
	require.NoError(t, leaf.SplitAt(1, []float64{3.5}))
	assert.False(leaf.Terminal())
	assert.Len(leaf.Children(), 2)
}

func TestSplitAtErrors(t *testing.T) {
	d := newTable(t, []int{0, 1}, []float64{1, 2})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, root.SplitAt(0, []float64{0.5}), ErrInvalidSplit)
	assert.ErrorIs(t, root.SplitAt(3, []float64{0.5}), ErrInvalidSplit)
	assert.ErrorIs(t, root.SplitAt(1, []float64{math.NaN()}), ErrInvalidSplit)
	assert.Empty(t, root.Children())
}

func TestLearnMaxDepthZero(t *testing.T) {
	d := newTable(t, []int{0, 1, 1, 0, 1}, []float64{1, 2, 3, 4, 5})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)

	require.NoError(t, root.Learn(0, 1))
	assert.True(t, root.Terminal())
	assert.Empty(t, root.Children())
	class, ok := root.PredictedClass()
	assert.True(t, ok)
	assert.Equal(t, 1, class)
}

func TestLearnUniform(t *testing.T) {
	d := newTable(t, []int{2, 2, 2, 2}, []float64{1, 2, 3, 4})
	for _, depth := range []int{1, 3, 10} {
		root, err := NewRoot(d, 0)
		require.NoError(t, err)
		require.NoError(t, root.Learn(depth, 1))
		assert.True(t, root.Terminal())
		assert.Empty(t, root.Children())
		class, _ := root.PredictedClass()
		assert.Equal(t, 2, class)
	}
}

func TestLearn(t *testing.T) {
	// label is 1 when x > 2 and y > 5
	labels := []int{0, 0, 0, 0, 1, 1, 0, 1}
	x := []float64{1, 1, 2, 3, 3, 4, 4, 5}
	y := []float64{1, 9, 7, 2, 8, 6, 3, 9}
	d := newTable(t, labels, x, y)
	root, err := NewRoot(d, 0)
	require.NoError(t, err)
	require.NoError(t, root.Learn(5, 1))

	assert.False(t, root.Terminal())
	assert.LessOrEqual(t, root.Depth(), 5)
	root.Leaves(func(leaf *Node) {
		assert.True(t, leaf.Terminal())
		assert.LessOrEqual(t, leaf.NClasses(), 1, "leaf %v", leaf.Trace())
	})
	for i := range labels {
		s, _ := d.Sample(i)
		p, err := root.Predict(s)
		require.NoError(t, err)
		assert.Equal(t, labels[i], p, "row %d", i)
	}
}

func TestLearnReopensTerminal(t *testing.T) {
	d := newTable(t, []int{0, 0, 1, 1}, []float64{1, 2, 3, 4})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)
	require.NoError(t, root.Learn(0, 1))
	require.True(t, root.Terminal())

	require.NoError(t, root.Learn(1, 1))
	assert.False(t, root.Terminal())
	assert.Len(t, root.Children(), 2)

	// learning again with no depth left collapses the split
	require.NoError(t, root.Learn(0, 1))
	assert.True(t, root.Terminal())
	assert.Empty(t, root.Children())
	assert.Nil(t, root.SplitFeature())
}

func TestLearnWithoutCandidates(t *testing.T) {
	nan := math.NaN()
	d := newTable(t, []int{0, 1, 1}, []float64{nan, nan, 4})
	log, logs := observedLogger(zap.NewAtomicLevelAt(zap.WarnLevel))
	root, err := NewRoot(d, 0, Logger(log))
	require.NoError(t, err)
	require.NoError(t, root.Learn(3, 1))
	assert.True(t, root.Terminal())
	class, _ := root.PredictedClass()
	assert.Equal(t, 1, class)
	assert.Equal(t, 1, logs.FilterMessageSnippet("No candidate split").Len())
}

func TestLearnErrors(t *testing.T) {
	d := newTable(t, []int{0, 1}, []float64{1, 2})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, root.Learn(-1, 1), ErrInvalidArgument)
	assert.ErrorIs(t, root.Learn(1, 0), ErrInvalidArgument)

	_, err = root.AddNewChild([]int{0})
	require.NoError(t, err)
	assert.ErrorIs(t, root.Terminate(), ErrStructure)
}

func TestPruneCollapsesSmallLeaf(t *testing.T) {
	d := newTable(t, []int{0, 0, 0, 1}, []float64{1, 2, 3, 4})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)
	require.NoError(t, root.Learn(1, 1))

	children := root.Children()
	require.Len(t, children, 2)
	require.Equal(t, []int{3}, children[1].Indices())

	root.Prune(2)
	assert.True(t, root.Terminal())
	assert.Empty(t, root.Children())
	assert.Nil(t, root.SplitFeature())
	assert.Equal(t, []int{0, 1, 2, 3}, root.IndicesRemaining())
	class, ok := root.PredictedClass()
	assert.True(t, ok)
	assert.Equal(t, 0, class)
}

func TestPruneCorrectness(t *testing.T) {
	n := 60
	labels := make([]int, n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64((i * 17) % 23)
		y[i] = float64((i * 5) % 11)
		labels[i] = 0
		if x[i]+y[i] > 15 {
			labels[i] = 1
		}
		if i%13 == 0 {
			labels[i] = 2
		}
	}
	d := newTable(t, labels, x, y)
	for _, minPoints := range []int{1, 2, 5, 10} {
		root, err := NewRoot(d, 0)
		require.NoError(t, err)
		require.NoError(t, root.Learn(6, 1))
		root.Prune(minPoints)
		walk(root, func(node *Node) {
			if node.Terminal() {
				assert.Empty(t, node.Children())
				return
			}
			for _, c := range node.Children() {
				assert.GreaterOrEqual(t, c.NPoints(), minPoints, "min points %d node %v", minPoints, c.Trace())
			}
		})
	}
}
