package dataset

import (
	"fmt"
	"math"

	"github.com/savetheginger/dtree/feature"
)

/*
Sample represents an observation to classify or from which to learn how to
classify them.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter, nil if the sample does not define it.
*/
type Sample interface {
	ValueFor(feature.Feature) (interface{}, error)
}

type sample struct {
	featureValues map[string]interface{}
}

/*
NewSample takes a map of feature string names to values and returns
a sample.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(feature feature.Feature) (interface{}, error) {
	return s.featureValues[feature.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}

/*
Float takes a sample and a feature and returns the value of the sample
for the feature as a float64. Integer values are widened and undefined values
are returned as NaN. Any other kind of value results in an error.
*/
func Float(s Sample, f feature.Feature) (float64, error) {
	v, err := s.ValueFor(f)
	if err != nil {
		return math.NaN(), err
	}
	switch tv := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return tv, nil
	case int:
		return float64(tv), nil
	default:
		return math.NaN(), fmt.Errorf("feature %s has non numeric value %v of type %T", f.Name(), v, v)
	}
}

/*
Int takes a sample and a feature and returns the value of the sample
for the feature as an int. Undefined or non integer values result in an error.
*/
func Int(s Sample, f feature.Feature) (int, error) {
	v, err := s.ValueFor(f)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(int)
	if !ok {
		if v == nil {
			return 0, fmt.Errorf("feature %s is not defined", f.Name())
		}
		return 0, fmt.Errorf("feature %s expects an int value, got %T value", f.Name(), v)
	}
	return iv, nil
}
