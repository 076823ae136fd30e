package tree

import (
	"fmt"
)

/*
SplitAt takes a column and a slice of thresholds and splits the node on the
column, creating one child per interval between consecutive sorted thresholds
bracketed by -Inf and +Inf, in increasing order. Intervals are half-open,
(low, high], and empty ones still get a child. Rows no interval holds, such as
those with undefined values, are handed to a trailing catch-all child.

A node that was already split or terminal has its children discarded and is
split anew. The returned error wraps ErrInvalidSplit if the column is the
target one, is out of range or a threshold is NaN.
*/
func (n *Node) SplitAt(column int, thresholds []float64) error {
	if err := n.checkSplitColumn(column); err != nil {
		return fmt.Errorf("splitting node %v: %w", n.Trace(), err)
	}
	bounds, err := bracket(thresholds)
	if err != nil {
		return fmt.Errorf("splitting node %v: %w", n.Trace(), err)
	}
	name := n.data.Feature(column).Name()
	// Resolved() holds for a fresh node without rows too, which has nothing to discard.
	if n.terminal || len(n.children) > 0 {
		n.log.Warnw("Splitting an already resolved node - existing children will be removed", "trace", n.Trace())
		n.UndoSplit()
		n.clearSplit()
		n.terminal, n.hasClass = false, false
	}
	ids := n.Indices()
	values, _ := n.columnValues(column, ids)
	bins := make([][]int, len(bounds)-1)
	for i, v := range values {
		if b := binOf(v, bounds); b >= 0 {
			bins[b] = append(bins[b], ids[i])
		}
	}
	for i, b := range bins {
		if len(b) == 0 {
			n.log.Warnf("No observations in value range (%g, %g] for attribute '%s'", bounds[i], bounds[i+1], name)
		}
		if _, err := n.AddNewChild(b); err != nil {
			n.UndoSplit()
			return fmt.Errorf("splitting node %v on %s: %w", n.Trace(), name, err)
		}
	}
	if !n.Resolved() {
		n.log.Warnf("Could not perform full split on attribute %s - possibly missing values", name)
		if _, err := n.AddFinalChild(); err != nil {
			n.UndoSplit()
			return fmt.Errorf("splitting node %v on %s: %w", n.Trace(), name, err)
		}
	}
	n.hasSplit = true
	n.splitColumn = column
	n.splitThresholds = bounds
	return nil
}

// Split splits the node on the column and threshold ChooseSplitAttribute picks.
func (n *Node) Split(granularity int) error {
	column, thresholds, _, err := n.ChooseSplitAttribute(granularity)
	if err != nil {
		return err
	}
	n.log.Infof("Splitting at attribute '%s' with threshold: %.2g", n.data.Feature(column).Name(), thresholds[0])
	return n.SplitAt(column, thresholds)
}
