package dataset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/savetheginger/dtree/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewIntegerFeature("label"),
		feature.NewContinuousFeature("x"),
	}
}

func TestNewWithIDs(t *testing.T) {
	samples := []Sample{
		NewSample(map[string]interface{}{"label": 1, "x": 0.5}),
		NewSample(map[string]interface{}{"label": 0}),
	}
	d, err := NewWithIDs(testFeatures(), []int{10, 3}, samples)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, d.Len())
	assert.Equal([]int{10, 3}, d.IDs())
	assert.True(d.Has(3))
	assert.False(d.Has(0))

	c, ok := d.Column("x")
	assert.True(ok)
	assert.Equal(1, c)

	v, err := d.Float(10, 1)
	assert.NoError(err)
	assert.Equal(0.5, v)
	v, err = d.Float(3, 1)
	assert.NoError(err)
	assert.True(math.IsNaN(v))

	l, err := d.Label(10, 0)
	assert.NoError(err)
	assert.Equal(1, l)
	_, err = d.Label(3, 1)
	assert.Error(err)

	_, err = d.Float(4, 1)
	assert.Error(err)
	_, err = d.Float(3, 2)
	assert.Error(err)

	ss, err := d.Samples([]int{3, 10})
	assert.NoError(err)
	assert.Equal([]Sample{samples[1], samples[0]}, ss)
}

func TestNewWithIDsErrors(t *testing.T) {
	s := NewSample(map[string]interface{}{"label": 1, "x": 0.5})
	_, err := NewWithIDs(testFeatures(), []int{1, 1}, []Sample{s, s})
	assert.Error(t, err)
	_, err = NewWithIDs(testFeatures(), []int{1}, []Sample{s, s})
	assert.Error(t, err)
	_, err = New(testFeatures(), []Sample{NewSample(map[string]interface{}{"label": "a"})})
	assert.Error(t, err)
}

func TestRandomSplit(t *testing.T) {
	samples := make([]Sample, 20)
	for i := range samples {
		samples[i] = NewSample(map[string]interface{}{"label": i % 2, "x": float64(i)})
	}
	d, err := New(testFeatures(), samples)
	require.NoError(t, err)

	train, test, err := RandomSplit(d, 25, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Len(t, test, 5)
	assert.Len(t, train, 15)
	assert.ElementsMatch(t, d.IDs(), append(append([]int{}, train...), test...))

	train2, test2, err := RandomSplit(d, 25, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	_, _, err = RandomSplit(d, 101, rand.New(rand.NewSource(7)))
	assert.Error(t, err)
}
