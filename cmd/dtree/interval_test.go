package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intervalFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewIntegerFeature("label"),
		feature.NewContinuousFeature("x"),
	}
}

func TestParseIntervals(t *testing.T) {
	criteria, err := parseIntervals([]string{"x:1.5:3", "x::2", "label:0:"}, intervalFeatures())
	require.NoError(t, err)
	require.Len(t, criteria, 3)
	expected := [][2]float64{{1.5, 3}, {math.Inf(-1), 2}, {0, math.Inf(1)}}
	for i, c := range criteria {
		ic, ok := c.(feature.IntervalCriterion)
		require.True(t, ok)
		a, b := ic.Interval()
		assert.Equal(t, expected[i][0], a)
		assert.Equal(t, expected[i][1], b)
	}
	assert.Equal(t, "label", criteria[2].Feature().Name())

	for _, v := range []string{"x:1", "x:1:2:3", "z:0:1", "x:a:1", "x:0:b", "x:3:1", "x:2:2", "x:nan:1"} {
		_, err := parseIntervals([]string{v}, intervalFeatures())
		assert.Error(t, err, v)
	}
}

func TestSatisfiesAll(t *testing.T) {
	criteria, err := parseIntervals([]string{"x:1:3", "label::0"}, intervalFeatures())
	require.NoError(t, err)
	tests := []struct {
		values   map[string]interface{}
		expected bool
	}{
		{map[string]interface{}{"label": 0, "x": 2.0}, true},
		{map[string]interface{}{"label": 0, "x": 3.0}, true},
		{map[string]interface{}{"label": 0, "x": 1.0}, false},
		{map[string]interface{}{"label": 1, "x": 2.0}, false},
		{map[string]interface{}{"label": 0}, false},
	}
	for _, tt := range tests {
		ok, err := satisfiesAll(criteria, dataset.NewSample(tt.values))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, ok, tt.values)
	}
	ok, err := satisfiesAll(nil, dataset.NewSample(nil))
	require.NoError(t, err)
	assert.True(t, ok)
}

const intervalCSV = "label,x\n0,1\n0,2\n1,3\n1,4\n0,?\n"

func TestReadDatasetFromCSVWithIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(intervalCSV), 0o600))
	rc := &rootCmdConfig{}
	criteria, err := parseIntervals([]string{"x:1:3"}, intervalFeatures())
	require.NoError(t, err)

	d, err := rc.readDataset(context.Background(), path, intervalFeatures(), criteria)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, d.IDs())

	d, err = rc.readDataset(context.Background(), path, intervalFeatures(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Len())
}

func TestReadDatasetFromSQLite3WithIntervals(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "samples.db")
	rc := &rootCmdConfig{}
	store, closeStore, err := rc.openStore(ctx, path, intervalFeatures(), true, nil)
	require.NoError(t, err)
	samples := make([]dataset.Sample, 4)
	for i := range samples {
		samples[i] = dataset.NewSample(map[string]interface{}{"label": i / 2, "x": float64(i + 1)})
	}
	_, err = store.Write(ctx, samples)
	require.NoError(t, err)
	require.NoError(t, closeStore())

	criteria, err := parseIntervals([]string{"x:1:3"}, intervalFeatures())
	require.NoError(t, err)
	d, err := rc.readDataset(ctx, path, intervalFeatures(), criteria)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, d.IDs())

	criteria, err = parseIntervals([]string{"x:1:", "label:0:"}, intervalFeatures())
	require.NoError(t, err)
	d, err = rc.readDataset(ctx, path, intervalFeatures(), criteria)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, d.IDs())
}

func TestSetInputStreamWithIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(intervalCSV), 0o600))
	scc := &setCmdConfig{rootCmdConfig: &rootCmdConfig{}, setInput: path}
	criteria, err := parseIntervals([]string{"x::2"}, intervalFeatures())
	require.NoError(t, err)

	samples, errs, err := scc.InputStream(intervalFeatures(), criteria)
	require.NoError(t, err)
	var xs []interface{}
	for s := range samples {
		x, err := s.ValueFor(intervalFeatures()[1])
		require.NoError(t, err)
		xs = append(xs, x)
	}
	assert.NoError(t, <-errs)
	assert.Equal(t, []interface{}{1.0, 2.0}, xs)
}

func TestOutputWriterClosesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	scc := &setCmdConfig{rootCmdConfig: &rootCmdConfig{}, setOutput: path}
	output, err := scc.OutputWriter(intervalFeatures())
	require.NoError(t, err)
	_, err = output.Write(context.Background(), []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"label": 1, "x": 0.5}),
	})
	require.NoError(t, err)
	require.NoError(t, output.Flush())

	cfw, ok := output.(*csvFileWriter)
	require.True(t, ok)
	assert.ErrorIs(t, cfw.file.Close(), os.ErrClosed)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "label,x\n1,0.5\n", string(contents))
}
