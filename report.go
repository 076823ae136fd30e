package dtree

import (
	"fmt"
	"sort"
	"strings"
)

// ClassReport holds the precision, recall and F-measure of a single class.
type ClassReport struct {
	Class int
	// Correct is the number of samples of the class predicted as such.
	Correct int
	// Predicted is the number of samples predicted as the class.
	Predicted int
	// Actual is the number of samples of the class.
	Actual    int
	Precision float64
	Recall    float64
	FMeasure  float64
}

/*
Report summarizes how the predicted labels of a set of samples compare to
their true labels: overall accuracy and a ClassReport per class appearing on
either side, sorted by class.
*/
type Report struct {
	Correct  int
	Total    int
	Accuracy float64
	Classes  []ClassReport
}

/*
NewReport takes the true and predicted labels of a set of samples and
returns a Report for them, or an error if the slices differ in length or are
empty. Ratios with a zero denominator are reported as 0.
*/
func NewReport(trueLabels, predicted []int) (*Report, error) {
	if len(trueLabels) != len(predicted) {
		return nil, fmt.Errorf("got %d true labels but %d predicted ones", len(trueLabels), len(predicted))
	}
	if len(trueLabels) == 0 {
		return nil, fmt.Errorf("cannot report on zero samples")
	}
	classes := make(map[int]*ClassReport)
	class := func(c int) *ClassReport {
		cr, ok := classes[c]
		if !ok {
			cr = &ClassReport{Class: c}
			classes[c] = cr
		}
		return cr
	}
	r := &Report{Total: len(trueLabels)}
	for i, tl := range trueLabels {
		class(tl).Actual++
		class(predicted[i]).Predicted++
		if tl == predicted[i] {
			class(tl).Correct++
			r.Correct++
		}
	}
	r.Accuracy = ratio(r.Correct, r.Total)
	for _, cr := range classes {
		cr.Precision = ratio(cr.Correct, cr.Predicted)
		cr.Recall = ratio(cr.Correct, cr.Actual)
		if cr.Precision+cr.Recall > 0 {
			cr.FMeasure = 2 * cr.Precision * cr.Recall / (cr.Precision + cr.Recall)
		}
		r.Classes = append(r.Classes, *cr)
	}
	sort.Slice(r.Classes, func(i, j int) bool {
		return r.Classes[i].Class < r.Classes[j].Class
	})
	return r, nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accuracy (All)=%0.2f (%d/%d)\n", r.Accuracy, r.Correct, r.Total)
	for _, cr := range r.Classes {
		fmt.Fprintf(&b, "Precision (%d)=%0.2f (%d/%d)\n", cr.Class, cr.Precision, cr.Correct, cr.Predicted)
		fmt.Fprintf(&b, "Recall (%d)=%0.2f (%d/%d)\n", cr.Class, cr.Recall, cr.Correct, cr.Actual)
		fmt.Fprintf(&b, "F-measure (%d)=%0.2f\n", cr.Class, cr.FMeasure)
	}
	return b.String()
}
