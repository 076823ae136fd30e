package tree

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/savetheginger/dtree/feature"
	"github.com/xlab/treeprint"
)

// Trace returns the positions of the node and its ancestors among their
// siblings, from the root's child down to the node. It is empty for a root.
func (n *Node) Trace() []int {
	if n.parent == nil {
		return []int{}
	}
	return append(n.parent.Trace(), n.whichChild)
}

/*
CreationStamp returns the criterion that routed the node's rows to it from
its parent: an interval criterion on the parent's split feature for interval
children, or an undefined criterion for a catch-all child. The returned error
wraps ErrStructure for a root or for a child of a node without a split.
*/
func (n *Node) CreationStamp() (feature.Criterion, error) {
	if n.parent == nil {
		return nil, fmt.Errorf("root node has no creation stamp: %w", ErrStructure)
	}
	f := n.parent.SplitFeature()
	if f == nil {
		return nil, fmt.Errorf("node %v: parent has no split: %w", n.Trace(), ErrStructure)
	}
	low, high, ok := n.parent.ThresholdsForChild(n.whichChild)
	if !ok {
		return feature.NewUndefinedCriterion(f), nil
	}
	return feature.NewIntervalCriterion(f, low, high), nil
}

// String returns a one line description of the node.
func (n *Node) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d tree node (", n.level)
	if n.parent == nil {
		b.WriteString("root")
	} else if c, err := n.CreationStamp(); err == nil {
		fmt.Fprintf(&b, "for %v, trace: %v", c, n.Trace())
	} else {
		fmt.Fprintf(&b, "trace: %v", n.Trace())
	}
	b.WriteString("); ")
	if !n.Resolved() {
		b.WriteString("not ")
	}
	b.WriteString("resolved ")
	if n.terminal {
		b.WriteString("(leaf)")
	} else {
		fmt.Fprintf(&b, "with %d children", len(n.children))
	}
	if len(n.children) > 0 {
		fmt.Fprintf(&b, "; subtree depth: %d", n.Depth())
	}
	if f := n.SplitFeature(); f != nil {
		fmt.Fprintf(&b, "; split at attribute '%s' with thresholds: %v", f.Name(), n.splitThresholds[1:len(n.splitThresholds)-1])
	}
	return b.String()
}

/*
Dump returns a multi line drawing of the subtree under the node, with the
label distribution of every leaf.
*/
func (n *Node) Dump() string {
	t := treeprint.NewWithRoot(n.summary())
	n.dump(t)
	return t.String()
}

func (n *Node) dump(t treeprint.Tree) {
	for _, c := range n.children {
		if len(c.children) == 0 {
			t.AddNode(c.summary())
			continue
		}
		c.dump(t.AddBranch(c.summary()))
	}
}

func (n *Node) summary() string {
	var b strings.Builder
	if n.parent == nil {
		b.WriteString("root")
	} else if c, err := n.CreationStamp(); err == nil {
		fmt.Fprintf(&b, "%v", c)
	} else {
		fmt.Fprintf(&b, "child %d", n.whichChild)
	}
	fmt.Fprintf(&b, " [%d samples, entropy %.3f]", n.NPoints(), n.entropy)
	if class, ok := n.PredictedClass(); ok {
		fmt.Fprintf(&b, " class %d %s", class, distribution(n.Labels()))
	}
	return b.String()
}

func distribution(labels []int) string {
	counts := LabelCounts(labels)
	keys := sortedLabels(counts)
	parts := make([]string, len(keys))
	for i, l := range keys {
		parts[i] = fmt.Sprintf("%d:%d", l, counts[l])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Leaves calls fn on every leaf of the subtree under the node, left to right.
func (n *Node) Leaves(fn func(*Node)) {
	if len(n.children) == 0 {
		fn(n)
		return
	}
	for _, c := range n.children {
		c.Leaves(fn)
	}
}

/*
WriteTerminalLabels writes a line per leaf of the subtree under the node with
its level, trace, predicted class and the labels of its rows.
*/
func (n *Node) WriteTerminalLabels(w io.Writer) error {
	var err error
	n.Leaves(func(leaf *Node) {
		if err != nil {
			return
		}
		class := "none"
		if c, ok := leaf.PredictedClass(); ok {
			class = fmt.Sprintf("%d", c)
		}
		labels := leaf.Labels()
		sort.Ints(labels)
		_, err = fmt.Fprintf(w, "Level %d node, %v: class %s (%v)\n", leaf.level, leaf.Trace(), class, labels)
	})
	return err
}
