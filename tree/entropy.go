package tree

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LabelCounts returns the number of occurrences of each label.
func LabelCounts(labels []int) map[int]int {
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

func sortedLabels(counts map[int]int) []int {
	labels := make([]int, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

/*
Entropy returns the base 2 Shannon entropy of the empirical distribution of
the given labels. It is 0 for an empty slice and for a single distinct label.
*/
func Entropy(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := LabelCounts(labels)
	p := make([]float64, 0, len(counts))
	total := float64(len(labels))
	for _, l := range sortedLabels(counts) {
		p = append(p, float64(counts[l])/total)
	}
	e := stat.Entropy(p) / math.Ln2
	if e <= 0 {
		return 0
	}
	return e
}

/*
PrevalentLabel returns the most frequent of the given labels, the lowest one
on ties, and true; or 0 and false if there are no labels.
*/
func PrevalentLabel(labels []int) (int, bool) {
	if len(labels) == 0 {
		return 0, false
	}
	counts := LabelCounts(labels)
	var best, bestCount int
	for _, l := range sortedLabels(counts) {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best, true
}

// bracket returns the sorted thresholds between -Inf and +Inf.
func bracket(thresholds []float64) ([]float64, error) {
	bounds := make([]float64, 0, len(thresholds)+2)
	bounds = append(bounds, math.Inf(-1))
	for _, t := range thresholds {
		if math.IsNaN(t) {
			return nil, fmt.Errorf("NaN threshold: %w", ErrInvalidSplit)
		}
		bounds = append(bounds, t)
	}
	bounds = append(bounds, math.Inf(1))
	sort.Float64s(bounds)
	return bounds, nil
}

/*
binOf returns the i for which bounds[i] < v <= bounds[i+1], or -1 when there
is none, as happens for NaN and -Inf.
*/
func binOf(v float64, bounds []float64) int {
	i := sort.SearchFloat64s(bounds, v)
	if i == 0 || i >= len(bounds) {
		return -1
	}
	return i - 1
}

/*
InformationGain takes a column and a slice of thresholds and returns the
entropy of the node minus the weighted entropy of the bins its rows fall in
when split on the column at the thresholds. Rows whose value lies in no bin,
such as undefined ones, count towards the total but belong to no bin.
*/
func (n *Node) InformationGain(column int, thresholds []float64) (float64, error) {
	if err := n.checkSplitColumn(column); err != nil {
		return 0, err
	}
	bounds, err := bracket(thresholds)
	if err != nil {
		return 0, err
	}
	values, labels := n.columnValues(column, n.Indices())
	return n.gain(values, labels, bounds), nil
}

func (n *Node) gain(values []float64, labels []int, bounds []float64) float64 {
	if len(values) == 0 {
		return n.entropy
	}
	bins := make([][]int, len(bounds)-1)
	for i, v := range values {
		if b := binOf(v, bounds); b >= 0 {
			bins[b] = append(bins[b], labels[i])
		}
	}
	total := float64(len(values))
	var remainder float64
	for _, bl := range bins {
		remainder += float64(len(bl)) / total * Entropy(bl)
	}
	return n.entropy - remainder
}

func (n *Node) columnValues(column int, ids []int) ([]float64, []int) {
	values := make([]float64, len(ids))
	for i, id := range ids {
		// rows and column were validated by the caller
		values[i], _ = n.data.Float(id, column)
	}
	return values, n.labelsOf(ids)
}

func (n *Node) checkSplitColumn(column int) error {
	if column == n.target {
		return fmt.Errorf("column %d holds the target feature %s: %w", column, n.TargetFeature().Name(), ErrInvalidSplit)
	}
	if n.data.Feature(column) == nil {
		return fmt.Errorf("column %d out of range [0, %d): %w", column, n.data.NColumns(), ErrInvalidSplit)
	}
	return nil
}

/*
ChooseSplitThreshold takes a column and a granularity and returns the
threshold with the highest information gain for a binary split of the node on
the column, along with that gain. Candidates are the midpoints of consecutive
sorted finite values of the node's rows, taking every granularity-th one
starting with the first; a granularity of 1 tries them all. The first
candidate wins ties.
*/
func (n *Node) ChooseSplitThreshold(column, granularity int) (threshold, gain float64, err error) {
	if granularity < 1 {
		return 0, 0, fmt.Errorf("granularity %d below 1: %w", granularity, ErrInvalidArgument)
	}
	if err := n.checkSplitColumn(column); err != nil {
		return 0, 0, err
	}
	return n.chooseThreshold(column, granularity, n.Indices())
}

func (n *Node) chooseThreshold(column, granularity int, ids []int) (float64, float64, error) {
	values, labels := n.columnValues(column, ids)
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	name := n.data.Feature(column).Name()
	if len(finite) < 2 {
		return 0, 0, fmt.Errorf("column %s has %d finite values: %w", name, len(finite), ErrNoCandidateSplit)
	}
	sort.Float64s(finite)
	var candidates []float64
	for i := 0; i+1 < len(finite); i += granularity {
		candidates = append(candidates, (finite[i]+finite[i+1])/2)
	}
	gains := make([]float64, len(candidates))
	for i, c := range candidates {
		gains[i] = n.gain(values, labels, []float64{math.Inf(-1), c, math.Inf(1)})
	}
	best := floats.MaxIdx(gains)
	n.log.Debugf("For attribute '%s', best gain is %.2g (at threshold %.3g)", name, gains[best], candidates[best])
	return candidates[best], gains[best], nil
}

/*
ChooseSplitAttribute takes a granularity and returns the input column and
single threshold with the highest information gain over every input column,
along with that gain. The first column in column order wins ties. Columns
without candidate thresholds are skipped; if no column has any, the returned
error wraps ErrNoCandidateSplit.

Columns are searched concurrently up to the node's parallelism. The search
only reads the node.
*/
func (n *Node) ChooseSplitAttribute(granularity int) (column int, thresholds []float64, gain float64, err error) {
	if granularity < 1 {
		return 0, nil, 0, fmt.Errorf("granularity %d below 1: %w", granularity, ErrInvalidArgument)
	}
	type best struct {
		threshold, gain float64
		ok              bool
	}
	columns := n.InputColumns()
	ids := n.Indices()
	results := make([]best, len(columns))
	var g errgroup.Group
	g.SetLimit(n.parallelism)
	for i, c := range columns {
		i, c := i, c
		g.Go(func() error {
			th, gain, err := n.chooseThreshold(c, granularity, ids)
			if errors.Is(err, ErrNoCandidateSplit) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = best{th, gain, true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, 0, err
	}
	chosen := -1
	for i, r := range results {
		if r.ok && (chosen < 0 || r.gain > results[chosen].gain) {
			chosen = i
		}
	}
	if chosen < 0 {
		return 0, nil, 0, fmt.Errorf("choosing split attribute for node %v: %w", n.Trace(), ErrNoCandidateSplit)
	}
	column = columns[chosen]
	n.log.Debugf("Chosen attribute: %s (expected gain: %.3g)", n.data.Feature(column).Name(), results[chosen].gain)
	return column, []float64{results[chosen].threshold}, results[chosen].gain, nil
}
