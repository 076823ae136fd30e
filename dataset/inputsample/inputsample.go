/*
Package inputsample provides an implementation of dataset.Sample that is read
from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
)

/*
readSample represents a sample whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type readSample struct {
	obtainedValues        map[string]interface{}
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              map[string]feature.Feature
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, interface{}) error
}

/*
New takes an io.Reader, a slice of features, a
FeatureValueRequester and an undefinedValue coding string
and returns a Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader. Each value is read once:
asking again for it returns the value read the first time.

The parsing expects each value to be presented ending with the
'\n' character, that is in new lines. Also, the undefinedValue
string followed by the '\n' character will be interpreted as an
undefined value.

Lines will be read from the reader until a line containing a valid
float64 number for a feature.ContinuousFeature, or a valid int for a
feature.IntegerFeature, is found. Non accepted values will be
rejected with the FeatureValueRequester's RejectValueFor method.

Attempting to obtain a value for a Feature not in the given
features slice returns an error.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) dataset.Sample {
	byName := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		byName[f.Name()] = f
	}
	return &readSample{make(map[string]interface{}), undefinedValue, bufio.NewScanner(r), featureValueRequester, byName}
}

func (rs *readSample) ValueFor(f feature.Feature) (interface{}, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	featureWithInfo, ok := rs.features[f.Name()]
	if !ok {
		return nil, fmt.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	var parse func(string) (interface{}, error)
	switch featureWithInfo.(type) {
	case *feature.ContinuousFeature:
		parse = func(line string) (interface{}, error) {
			return strconv.ParseFloat(line, 64)
		}
	case *feature.IntegerFeature:
		parse = func(line string) (interface{}, error) {
			return strconv.Atoi(line)
		}
	default:
		return nil, fmt.Errorf("do not know how to read a value for features of type %T", featureWithInfo)
	}
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return nil, err
	}
	return rs.read(featureWithInfo, parse)
}

func (rs *readSample) read(f feature.Feature, parse func(string) (interface{}, error)) (interface{}, error) {
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			rs.obtainedValues[f.Name()] = nil
			return nil, nil
		}
		value, err := parse(line)
		if err == nil {
			rs.obtainedValues[f.Name()] = value
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			return nil, err
		}
	}
	err := rs.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for %s", f.Name())
}
