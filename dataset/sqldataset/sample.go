package sqldataset

import "github.com/savetheginger/dtree/feature"

/*
Sample is an implementation of dataset.Sample
optimized to represent samples read from a Store.
*/
type Sample struct {
	/*
		Values is a map of string columns names to interface{}.
		Specifically, the value must be
		* absent for an undefined value
		* an int for the value of an integer feature
		* a float64 for the value of a continuous feature
	*/
	Values map[string]interface{}
	/*
		FeatureNamesColumns is a map that translates the name
		of a feature to the column representing it on the database.
	*/
	FeatureNamesColumns map[string]string
}

// ValueFor returns the value for the feature, nil if undefined.
func (s *Sample) ValueFor(f feature.Feature) (interface{}, error) {
	c, ok := s.FeatureNamesColumns[f.Name()]
	if !ok {
		return nil, nil
	}
	return s.Values[c], nil
}
