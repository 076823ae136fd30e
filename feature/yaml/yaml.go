/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/savetheginger/dtree/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
Metadata holds the features parsed from a metadata document, in the order
they were declared, and the name of the target feature if one was given.
*/
type Metadata struct {
	Features []feature.Feature
	Target   string
}

/*
ReadMetadata takes a slice of bytes with a feature specification in YML and
returns the Metadata parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and a
string value of either 'continuous' for continuous features or 'integer' for
integer features. Declaration order is kept, as it is the column order of
the dataset. An optional target property names the integer feature to predict.

Feature names YAML reads as something other than a string, like y, no or 1,
must be quoted.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	raw := struct {
		Features yaml.MapSlice
		Target   string
	}{}
	err := yaml.Unmarshal(md, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if len(raw.Features) == 0 {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	metadata := &Metadata{Target: raw.Target}
	seen := make(map[string]bool)
	for _, item := range raw.Features {
		fn, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("feature name %v is read as a %T, quote it to use it as a name", item.Key, item.Key)
		}
		if seen[fn] {
			return nil, fmt.Errorf("feature %s declared more than once", fn)
		}
		seen[fn] = true
		kind, ok := item.Value.(string)
		if !ok {
			return nil, fmt.Errorf("invalid feature declaration of type %T for %s", item.Value, fn)
		}
		switch kind {
		case "continuous":
			metadata.Features = append(metadata.Features, feature.NewContinuousFeature(fn))
		case "integer":
			metadata.Features = append(metadata.Features, feature.NewIntegerFeature(fn))
		default:
			return nil, fmt.Errorf("invalid feature kind %q for %s: expected continuous or integer", kind, fn)
		}
	}
	if metadata.Target != "" {
		if !seen[metadata.Target] {
			return nil, fmt.Errorf("target %s is not a declared feature", metadata.Target)
		}
	}
	return metadata, nil
}

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns a slice of features parsed from it or an error.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	metadata, err := ReadMetadata(md)
	if err != nil {
		return nil, err
	}
	return metadata.Features, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed Metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return metadata, err
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and returns
the features declared in it or an error.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	metadata, err := ReadMetadataFromFile(filepath)
	if err != nil {
		return nil, err
	}
	return metadata.Features, nil
}
