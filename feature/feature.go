package feature

import "fmt"

/*
Feature represents a property that can be observed, a column of a dataset.

Its Valid method takes a value and returns true and nil when the value is
acceptable for the feature, or false and an error describing the reason
otherwise. A nil value stands for an undefined value and is always valid.
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
IntegerFeature represents a property that can be observed and that can only
take integer values, such as a class label.
*/
type IntegerFeature struct {
	name string
}

/*
ContinuousFeature represents a property that can be observed and that can take
a numeric value
*/
type ContinuousFeature struct {
	name string
}

/*
NewIntegerFeature takes a name string and returns an integer feature with the
given name.
*/
func NewIntegerFeature(name string) *IntegerFeature {
	return &IntegerFeature{name}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (inf *IntegerFeature) Name() string {
	return inf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is an int it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (inf *IntegerFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	if _, ok := value.(int); !ok {
		return false, fmt.Errorf("integer feature %s expects int value, got %T value", inf.Name(), value)
	}
	return true, nil
}

func (inf *IntegerFeature) String() string {
	return inf.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a float64 it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	_, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("continuous feature %s expects float64 value, got %T value", cf.Name(), value)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

// Names returns the names of the given features in order.
func Names(features []Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name()
	}
	return names
}
