package tree

import (
	"fmt"
	"math"
	"testing"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTable builds a dataset whose column 0 is the integer feature "label" and
// whose following columns are continuous features x, y, z... NaN values are
// left undefined.
func newTable(t *testing.T, labels []int, columns ...[]float64) *dataset.Dataset {
	t.Helper()
	return newTableWithIDs(t, nil, labels, columns...)
}

func newTableWithIDs(t *testing.T, ids []int, labels []int, columns ...[]float64) *dataset.Dataset {
	t.Helper()
	features := []feature.Feature{feature.NewIntegerFeature("label")}
	names := []string{"x", "y", "z", "w"}
	for i := range columns {
		features = append(features, feature.NewContinuousFeature(names[i]))
	}
	samples := make([]dataset.Sample, len(labels))
	for r, l := range labels {
		values := map[string]interface{}{"label": l}
		for c, col := range columns {
			if !math.IsNaN(col[r]) {
				values[names[c]] = col[r]
			}
		}
		samples[r] = dataset.NewSample(values)
	}
	var d *dataset.Dataset
	var err error
	if ids == nil {
		d, err = dataset.New(features, samples)
	} else {
		d, err = dataset.NewWithIDs(features, ids, samples)
	}
	require.NoError(t, err)
	return d
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children() {
		walk(c, fn)
	}
}

func TestNewRoot(t *testing.T) {
	d := newTable(t, []int{0, 0, 1, 1}, []float64{1, 2, 3, 4})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(0, root.Level())
	assert.Nil(root.Parent())
	assert.Equal([]int{0, 1, 2, 3}, root.Indices())
	assert.Equal([]int{0, 1, 2, 3}, root.IndicesRemaining())
	assert.Empty(root.IndicesDistributed())
	assert.Equal([]int{1}, root.InputColumns())
	assert.Equal("label", root.TargetFeature().Name())
	assert.Equal(2, root.NClasses())
	assert.False(root.Uniform())
	assert.False(root.Resolved())
	assert.InDelta(1.0, root.Entropy(), 1e-12)

	sub, err := NewRoot(d, 0, Indices(2, 3))
	require.NoError(t, err)
	assert.Equal([]int{2, 3}, sub.Indices())
	assert.True(sub.Uniform())
	assert.Equal(0.0, sub.Entropy())

	empty, err := NewRoot(d, 0, Indices())
	require.NoError(t, err)
	assert.Equal(0, empty.NPoints())
	assert.True(empty.Resolved())
}

func TestNewRootWithArbitraryIDs(t *testing.T) {
	d := newTableWithIDs(t, []int{100, 7, 42, 3}, []int{0, 0, 1, 1}, []float64{1, 2, 3, 4})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 42, 100}, root.Indices())

	require.NoError(t, root.Learn(5, 1))
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, []int{7, 100}, children[0].Indices())
	assert.Equal(t, []int{3, 42}, children[1].Indices())
}

func TestNewErrors(t *testing.T) {
	d := newTable(t, []int{0, 1}, []float64{1, 2})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)

	tests := []struct {
		name     string
		build    func() (*Node, error)
		expected error
	}{
		{"non root without parent", func() (*Node, error) { return New(d, 0, 1, nil, []int{0}) }, ErrStructure},
		{"root with parent", func() (*Node, error) { return New(d, 0, 0, root, []int{0}) }, ErrStructure},
		{"non root without indices", func() (*Node, error) { return New(d, 0, 1, root, nil) }, ErrStructure},
		{"level skipping parent", func() (*Node, error) { return New(d, 0, 2, root, []int{0}) }, ErrStructure},
		{"target differing from parent", func() (*Node, error) { return New(d, 1, 1, root, []int{0}) }, ErrStructure},
		{"negative level", func() (*Node, error) { return New(d, 0, -1, nil, nil) }, ErrStructure},
		{"continuous target", func() (*Node, error) { return NewRoot(d, 1) }, ErrDataValidation},
		{"continuous target without rows", func() (*Node, error) { return NewRoot(d, 1, Indices()) }, ErrDataValidation},
		{"continuous root target through New", func() (*Node, error) { return New(d, 1, 0, nil, []int{}) }, ErrDataValidation},
		{"target out of range", func() (*Node, error) { return NewRoot(d, 2) }, ErrDataValidation},
		{"unknown row", func() (*Node, error) { return NewRoot(d, 0, Indices(0, 5)) }, ErrDataValidation},
		{"nil dataset", func() (*Node, error) { return NewRoot(nil, 0) }, ErrDataValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.build()
			assert.Nil(t, n)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	child, err := New(d, 0, 1, root, []int{})
	require.NoError(t, err)
	assert.Equal(t, 0, child.NPoints())
	assert.Empty(t, root.Children())
}

func TestUndefinedTarget(t *testing.T) {
	features := []feature.Feature{feature.NewIntegerFeature("label"), feature.NewContinuousFeature("x")}
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"label": 1, "x": 1.0}),
		dataset.NewSample(map[string]interface{}{"x": 2.0}),
	}
	d, err := dataset.New(features, samples)
	require.NoError(t, err)
	_, err = NewRoot(d, 0)
	assert.ErrorIs(t, err, ErrDataValidation)
	_, err = NewRoot(d, 0, Indices(0))
	assert.NoError(t, err)
}

func TestAddNewChild(t *testing.T) {
	d := newTable(t, []int{0, 0, 1, 1, 1}, []float64{1, 2, 3, 4, 5})
	root, err := NewRoot(d, 0)
	require.NoError(t, err)

	first, err := root.AddNewChild([]int{0, 3})
	require.NoError(t, err)
	assert := assert.New(t)
	assert.Equal(1, first.Level())
	assert.Equal(root, first.Parent())
	assert.Equal(0, first.WhichChild())
	assert.Equal([]int{0, 3}, root.IndicesDistributed())
	assert.Equal([]int{1, 2, 4}, root.IndicesRemaining())
	assert.False(root.Resolved())

	_, err = root.AddNewChild([]int{3, 4})
	assert.ErrorIs(err, ErrInvariantViolation)
	assert.Len(root.Children(), 1)
	assert.Equal([]int{1, 2, 4}, root.IndicesRemaining())

	final, err := root.AddFinalChild()
	require.NoError(t, err)
	assert.Equal(1, final.WhichChild())
	assert.Equal([]int{1, 2, 4}, final.Indices())
	assert.True(root.Resolved())
	assert.Equal([]int{0, 1, 2, 3, 4}, root.Indices())

	root.UndoSplit()
	assert.Empty(root.Children())
	assert.Empty(root.IndicesDistributed())
	assert.Equal([]int{0, 1, 2, 3, 4}, root.IndicesRemaining())
}

func TestIndexConservation(t *testing.T) {
	n := 40
	labels := make([]int, n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		labels[i] = (i / 10) % 3
		x[i] = float64((i * 7) % 13)
		y[i] = float64(i)
		if i%9 == 0 {
			x[i] = math.NaN()
		}
	}
	d := newTable(t, labels, x, y)
	root, err := NewRoot(d, 0, Parallelism(2))
	require.NoError(t, err)
	require.NoError(t, root.Learn(4, 2))

	walk(root, func(node *Node) {
		name := fmt.Sprintf("node %v", node.Trace())
		distributed := node.IndicesDistributed()
		remaining := node.IndicesRemaining()
		assert.Empty(t, intersect(distributed, remaining), name)
		children := node.Children()
		if len(children) == 0 {
			assert.Empty(t, distributed, name)
			return
		}
		assert.Empty(t, remaining, name)
		var union []int
		for i, c := range children {
			assert.Equal(t, i, c.WhichChild(), name)
			for _, o := range children[i+1:] {
				assert.Empty(t, intersect(c.Indices(), o.Indices()), name)
			}
			union = append(union, c.Indices()...)
		}
		assert.ElementsMatch(t, distributed, union, name)
	})
}

func intersect(a, b []int) []int {
	set := make(map[int]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	var result []int
	for _, v := range b {
		if set[v] {
			result = append(result, v)
		}
	}
	return result
}
