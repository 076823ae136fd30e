package mongodataset

import (
	"math"
	"testing"

	"github.com/savetheginger/dtree/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"
)

func TestQuery(t *testing.T) {
	x := feature.NewContinuousFeature("x")
	y := feature.NewContinuousFeature("y")
	assert.Equal(t, bson.M{}, query(nil))

	q := query([]feature.Criterion{
		feature.NewIntervalCriterion(x, math.Inf(-1), 5),
		feature.NewIntervalCriterion(x, 1, 3),
		feature.NewIntervalCriterion(y, 2, math.Inf(1)),
		feature.NewUndefinedCriterion(y),
		feature.NewIntervalCriterion(feature.NewContinuousFeature("z"), math.Inf(-1), math.Inf(1)),
	})
	assert.Equal(t, bson.M{
		"x": bson.M{"$gt": 1.0, "$lte": 3.0},
		"y": bson.M{"$gt": 2.0},
	}, q)
}

func TestNormalize(t *testing.T) {
	features := []feature.Feature{
		feature.NewIntegerFeature("label"),
		feature.NewContinuousFeature("x"),
	}
	values, err := normalize(features, bson.M{"_id": 1, "label": int64(2), "x": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"label": 2, "x": 3.0}, values)

	values, err = normalize(features, bson.M{"label": 1.0, "other": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"label": 1}, values)

	_, err = normalize(features, bson.M{"label": 1.5})
	assert.Error(t, err)
	_, err = normalize(features, bson.M{"x": "three"})
	assert.Error(t, err)
}

func TestValidateFeatureNames(t *testing.T) {
	assert.NoError(t, validateFeatureNames([]feature.Feature{feature.NewContinuousFeature("x")}))
	assert.Error(t, validateFeatureNames([]feature.Feature{feature.NewContinuousFeature("_id")}))
	assert.Error(t, validateFeatureNames([]feature.Feature{feature.NewContinuousFeature("a.b")}))
	assert.Error(t, validateFeatureNames([]feature.Feature{feature.NewContinuousFeature("$x")}))
}
