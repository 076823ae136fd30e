package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
)

const intervalFlagUsage = "restrict the input to samples whose feature lies in an interval (a, b], given as feature:a:b with either bound left empty for no bound (can be repeated)"

/*
parseIntervals takes interval flag values of the form feature:a:b and the
features of a set, and returns an interval criterion per value. An empty
bound stands for -Inf or +Inf.
*/
func parseIntervals(values []string, features []feature.Feature) ([]feature.Criterion, error) {
	criteria := make([]feature.Criterion, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("interval %q is not of the form feature:a:b", v)
		}
		f := featureNamed(features, parts[0])
		if f == nil {
			return nil, fmt.Errorf("interval %q: unknown feature %s", v, parts[0])
		}
		a, err := parseBound(parts[1], math.Inf(-1))
		if err != nil {
			return nil, fmt.Errorf("interval %q: %v", v, err)
		}
		b, err := parseBound(parts[2], math.Inf(1))
		if err != nil {
			return nil, fmt.Errorf("interval %q: %v", v, err)
		}
		if !(a < b) {
			return nil, fmt.Errorf("interval %q is empty", v)
		}
		criteria = append(criteria, feature.NewIntervalCriterion(f, a, b))
	}
	return criteria, nil
}

func parseBound(s string, unbounded float64) (float64, error) {
	if s == "" {
		return unbounded, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bound %s", s)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("invalid bound %s", s)
	}
	return v, nil
}

func featureNamed(features []feature.Feature, name string) feature.Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// satisfiesAll reports whether the sample meets every criterion.
func satisfiesAll(criteria []feature.Criterion, s dataset.Sample) (bool, error) {
	for _, c := range criteria {
		ok, err := c.SatisfiedBy(s)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
