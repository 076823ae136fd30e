package tree

import (
	"errors"
	"fmt"
)

/*
Learn grows the subtree under the node up to maxDepth levels, choosing splits
with the given granularity (see ChooseSplitThreshold).

The node becomes terminal when maxDepth is 0, when it has no rows, when all
its rows share one label, or when no input column offers a candidate
threshold. Otherwise it is split, reopening it if it was terminal, and each
child learns with maxDepth-1. The returned error wraps ErrInvalidArgument for
a negative maxDepth or a granularity below 1.
*/
func (n *Node) Learn(maxDepth, granularity int) error {
	if maxDepth < 0 {
		return fmt.Errorf("learning with max depth %d: %w", maxDepth, ErrInvalidArgument)
	}
	if granularity < 1 {
		return fmt.Errorf("learning with granularity %d: %w", granularity, ErrInvalidArgument)
	}
	switch {
	case maxDepth == 0:
		n.log.Infof("Reached the maximal depth (at %v) - no further splitting", n.Trace())
		n.collapse()
		return nil
	case n.NPoints() == 0:
		n.log.Infof("Node %v has no samples - no further splitting", n.Trace())
		n.collapse()
		return nil
	case n.Uniform():
		n.log.Infof("Node %v is an uniform node - no further splitting", n.Trace())
		n.collapse()
		return nil
	}
	if n.terminal {
		n.log.Infof("Splitting a node previously marked as terminal: %v", n.Trace())
		n.terminal, n.hasClass = false, false
	}
	n.log.Infof("Performing split of node %v", n.Trace())
	if err := n.Split(granularity); err != nil {
		if errors.Is(err, ErrNoCandidateSplit) {
			n.log.Warnf("No candidate split for node %v - no further splitting", n.Trace())
			n.collapse()
			return nil
		}
		return err
	}
	n.log.Debugf("Learning children of node %v", n.Trace())
	for _, c := range n.children {
		if err := c.Learn(maxDepth-1, granularity); err != nil {
			return err
		}
	}
	return nil
}

/*
Terminate marks the node as a leaf predicting the most frequent label among
its rows, the lowest one on ties. A node without rows predicts what its
closest ancestor with rows would. The returned error wraps ErrStructure if
the node has children.
*/
func (n *Node) Terminate() error {
	if len(n.children) > 0 {
		return fmt.Errorf("terminating node %v with %d children: %w", n.Trace(), len(n.children), ErrStructure)
	}
	n.terminate()
	return nil
}

func (n *Node) terminate() {
	class, ok := PrevalentLabel(n.Labels())
	for p := n.parent; !ok && p != nil; p = p.parent {
		class, ok = PrevalentLabel(p.Labels())
	}
	n.terminal = true
	n.class, n.hasClass = class, ok
}

func (n *Node) collapse() {
	n.UndoSplit()
	n.clearSplit()
	n.terminate()
}

/*
Prune collapses every split of the subtree under the node that produced a
child with fewer than minPoints rows. Such a node loses its children and
becomes a leaf predicting the most frequent label among all its rows. Only
immediate children are looked at: the children of a node whose children are
all big enough are pruned in turn.
*/
func (n *Node) Prune(minPoints int) {
	if len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		if c.NPoints() < minPoints {
			n.log.Infof("Pruning at node %v", n.Trace())
			n.collapse()
			return
		}
	}
	for _, c := range n.children {
		c.Prune(minPoints)
	}
}
