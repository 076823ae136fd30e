package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/savetheginger/dtree/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMetadata(t *testing.T) {
	md := []byte(`
target: label
features:
  label: integer
  width: continuous
  height: continuous
`)
	metadata, err := ReadMetadata(md)
	require.NoError(t, err)
	assert := assert.New(t)
	assert.Equal("label", metadata.Target)
	assert.Equal([]string{"label", "width", "height"}, feature.Names(metadata.Features))
	assert.IsType(&feature.IntegerFeature{}, metadata.Features[0])
	assert.IsType(&feature.ContinuousFeature{}, metadata.Features[1])
}

func TestReadMetadataErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          `target: label`,
		"unknown kind":   "features:\n  label: discrete\n",
		"list values":    "features:\n  label: [a, b]\n",
		"missing target": "target: class\nfeatures:\n  label: integer\n",
		"malformed":      "features: [",
		"boolean name":   "features:\n  x: continuous\n  y: integer\n",
		"numeric name":   "features:\n  1: integer\n",
	}
	for name, md := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMetadata([]byte(md))
			assert.Error(t, err)
		})
	}
}

func TestReadFeatures(t *testing.T) {
	features, err := ReadFeatures([]byte("target: \"y\"\nfeatures:\n  x: continuous\n  \"y\": integer\n  'on': integer\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "on"}, feature.Names(features))
}

func TestReadFeaturesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  x: continuous\n  label: integer\n"), 0o600))
	features, err := ReadFeaturesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "label"}, feature.Names(features))

	_, err = ReadFeaturesFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
