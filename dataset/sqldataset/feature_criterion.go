package sqldataset

import (
	"bytes"
	"fmt"
	"math"

	"github.com/savetheginger/dtree/feature"
)

/*
FeatureCriterion are used to represent
feature.Criterion on SQL DB-backed
stores, they should be easily translatable
to a condition on an SQL SELECT statement's
WHERE clause on a samples table.
*/
type FeatureCriterion struct {
	/*
		FeatureColumn is the column name for the feature
		the criterion is applying the restriction to.
	*/
	FeatureColumn string
	/*
		Operator is a string representing the
		comparison against the value in the criterion
		that is applied to samples. It must be one of
		the following: ">" or "<=".
		The semantics are the result from reading
		the criterion as Feature Operator Value
	*/
	Operator string
	/*
		Value is the value against which a comparison
		is applied to samples.
	*/
	Value interface{}
}

/*
ColumnNameFunc is a function that takes the name of a
feature and returns column name for it or an error if
the name could not be transformed.
*/
type ColumnNameFunc func(string) (string, error)

/*
NewFeatureCriteria takes a feature.Criterion and a ColumnNameFunc and returns
a slice of FeatureCriterion equivalent to the given criterion or an error if
the ColumnNameFunc cannot provide a name for the feature of the criterion.

A feature.IntervalCriterion for (a, b] yields a "> a" condition and a
"<= b" condition, skipping infinite bounds. A feature.UndefinedCriterion
imposes no conditions on samples and yields an empty slice. Any other
criterion is rejected.
*/
func NewFeatureCriteria(fc feature.Criterion, cnf ColumnNameFunc) ([]*FeatureCriterion, error) {
	columnName, err := cnf(fc.Feature().Name())
	if err != nil {
		return nil, fmt.Errorf("cannot obtain column name for feature '%s': %v", fc.Feature().Name(), err)
	}
	result := []*FeatureCriterion{}
	switch fc := fc.(type) {
	case feature.IntervalCriterion:
		a, b := fc.Interval()
		if !math.IsInf(a, 0) {
			result = append(result, &FeatureCriterion{columnName, ">", a})
		}
		if !math.IsInf(b, 0) {
			result = append(result, &FeatureCriterion{columnName, "<=", b})
		}
	case feature.UndefinedCriterion:
	default:
		return nil, fmt.Errorf("unsupported criterion %T", fc)
	}
	return result, nil
}

/*
WhereClause takes a slice of FeatureCriterion and a function returning the
bind parameter for an argument position and returns a WHERE clause ANDing
the criteria, with a leading space, and the values to bind to it. It returns
an empty clause for no criteria.
*/
func WhereClause(criteria []*FeatureCriterion, placeholder func(int) string) (string, []interface{}) {
	if len(criteria) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	values := make([]interface{}, 0, len(criteria))
	buf.WriteString(" WHERE ")
	for i, c := range criteria {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		buf.WriteString(fmt.Sprintf(`"%s" %s %s`, c.FeatureColumn, c.Operator, placeholder(i+1)))
		values = append(values, c.Value)
	}
	return buf.String(), values
}
