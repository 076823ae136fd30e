package feature

import (
	"fmt"
	"math"
)

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the given value satisfies the feature criterion.

Its Feature method returns the feature on which the criterion is applied.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(sample Sample) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value corresponding to the feature
passed as parameter.
*/
type Sample interface {
	ValueFor(Feature) (interface{}, error)
}

/*
IntervalCriterion represents a constraint on a numeric feature, a half-open
range (a, b] that delimits which values it may take. The interval can be
unbounded on either end, thus representing -Infinity or +Infinity.

Its Interval method returns the start and end of the interval to which the
feature is constrained as a pair of float64 values.
*/
type IntervalCriterion interface {
	Criterion
	Interval() (float64, float64)
}

/*
UndefinedCriterion represents the lack of constraint on a specific feature.
It is the criterion of a catch-all child that takes the samples no
interval of its siblings could hold.
*/
type UndefinedCriterion interface {
	Criterion
	IsUndefinedCriterion() bool
}

type intervalCriterion struct {
	feature Feature
	a, b    float64
}

type undefinedCriterion struct {
	feature Feature
}

/*
NewIntervalCriterion takes a Feature and a pair of float64 values indicating
the exclusive start and the inclusive end of an interval and returns an
IntervalCriterion with the feature and interval. The interval can be
open on any end by providing -Inf and/or +Inf.
*/
func NewIntervalCriterion(feature Feature, a float64, b float64) IntervalCriterion {
	return &intervalCriterion{feature, a, b}
}

/*
NewUndefinedCriterion takes a Feature and returns a Criterion that
is always satisfied.
*/
func NewUndefinedCriterion(f Feature) UndefinedCriterion {
	return &undefinedCriterion{f}
}

/*
Feature returns the feature to which the constraint applies.
*/
func (ic *intervalCriterion) Feature() Feature {
	return ic.feature
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns false if the sample does
not define a value for the feature or defines a non numeric one, true if the
value is in the range defined by the criterion; and false otherwise.
*/
func (ic *intervalCriterion) SatisfiedBy(sample Sample) (bool, error) {
	val, err := sample.ValueFor(ic.feature)
	if err != nil {
		return false, err
	}
	var floatVal float64
	switch v := val.(type) {
	case float64:
		floatVal = v
	case int:
		floatVal = float64(v)
	default:
		return false, nil
	}
	return ic.Contains(floatVal), nil
}

// Contains reports whether v lies in (a, b].
func (ic *intervalCriterion) Contains(v float64) bool {
	return ic.a < v && v <= ic.b
}

func (ic *intervalCriterion) Interval() (float64, float64) {
	return ic.a, ic.b
}

func (ic *intervalCriterion) String() string {
	if math.IsInf(ic.a, -1) && math.IsInf(ic.b, 1) {
		return fmt.Sprintf("%s defined", ic.feature.Name())
	}
	if math.IsInf(ic.a, -1) {
		return fmt.Sprintf("%s <= %g", ic.feature.Name(), ic.b)
	}
	if math.IsInf(ic.b, 1) {
		return fmt.Sprintf("%g < %s", ic.a, ic.feature.Name())
	}
	return fmt.Sprintf("%g < %s <= %g", ic.a, ic.feature.Name(), ic.b)
}

func (u *undefinedCriterion) Feature() Feature {
	return u.feature
}

func (u *undefinedCriterion) SatisfiedBy(Sample) (bool, error) {
	return true, nil
}

func (u *undefinedCriterion) IsUndefinedCriterion() bool {
	return true
}

func (u *undefinedCriterion) String() string {
	return fmt.Sprintf("%s not bracketed", u.feature.Name())
}
