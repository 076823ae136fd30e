package tree

import (
	"fmt"
	"math"

	"github.com/savetheginger/dtree/dataset"
)

/*
ChildForValue returns the child of a split node whose interval holds the
given value, found by binary search over the split thresholds.

Values no interval holds, NaN and -Inf, go to the catch-all child when the
node has one. Otherwise -Inf goes to the first child and NaN to the last.
The returned error wraps ErrStructure if the node was not split.
*/
func (n *Node) ChildForValue(v float64) (*Node, error) {
	if len(n.children) == 0 || !n.hasSplit {
		return nil, fmt.Errorf("routing value %g at node %v: node is not split: %w", v, n.Trace(), ErrStructure)
	}
	if b := binOf(v, n.splitThresholds); b >= 0 && b < len(n.children) {
		return n.children[b], nil
	}
	if len(n.children) >= len(n.splitThresholds) {
		return n.children[len(n.children)-1], nil
	}
	if math.IsInf(v, -1) {
		return n.children[0], nil
	}
	return n.children[len(n.children)-1], nil
}

/*
Predict returns the class the subtree under the node predicts for the given
sample, following the children whose intervals hold the sample's values down
to a leaf. The returned error wraps ErrStructure when a node on the way is
neither terminal nor split, or is a terminal node with nothing to predict from.
*/
func (n *Node) Predict(s dataset.Sample) (int, error) {
	if n.terminal {
		if !n.hasClass {
			return 0, fmt.Errorf("predicting at node %v: leaf without samples: %w", n.Trace(), ErrStructure)
		}
		return n.class, nil
	}
	if len(n.children) == 0 {
		return 0, fmt.Errorf("predicting at node %v: node is neither terminal nor split: %w", n.Trace(), ErrStructure)
	}
	v, err := dataset.Float(s, n.SplitFeature())
	if err != nil {
		return 0, fmt.Errorf("predicting at node %v: %v", n.Trace(), err)
	}
	child, err := n.ChildForValue(v)
	if err != nil {
		return 0, err
	}
	return child.Predict(s)
}

/*
PredictBatch returns the predictions for the given samples in the same order.
*/
func (n *Node) PredictBatch(samples []dataset.Sample) ([]int, error) {
	predicted := make([]int, len(samples))
	for i, s := range samples {
		p, err := n.Predict(s)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		predicted[i] = p
	}
	return predicted, nil
}

/*
Evaluate takes a dataset and a slice of its row IDs, predicts a class for each
row and returns the true labels of the rows, the predicted ones and the
fraction of rows for which both match. The dataset does not have to be the
one the tree was learned from but must define the same features. The returned
error wraps ErrInvalidArgument if there are no row IDs.
*/
func (n *Node) Evaluate(data *dataset.Dataset, ids []int) (trueLabels, predicted []int, accuracy float64, err error) {
	if len(ids) == 0 {
		return nil, nil, 0, fmt.Errorf("evaluating with no observations: %w", ErrInvalidArgument)
	}
	samples, err := data.Samples(ids)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("evaluating: %v: %w", err, ErrDataValidation)
	}
	trueLabels = make([]int, len(samples))
	for i, s := range samples {
		trueLabels[i], err = dataset.Int(s, n.TargetFeature())
		if err != nil {
			return nil, nil, 0, fmt.Errorf("evaluating row %d: %v: %w", ids[i], err, ErrDataValidation)
		}
	}
	predicted, err = n.PredictBatch(samples)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("evaluating: %w", err)
	}
	correct := 0
	for i := range trueLabels {
		if trueLabels[i] == predicted[i] {
			correct++
		}
	}
	accuracy = float64(correct) / float64(len(ids))
	n.log.Infof("Testing score: %g (%d/%d samples)", accuracy, correct, len(ids))
	return trueLabels, predicted, accuracy, nil
}
