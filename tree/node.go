package tree

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
	"go.uber.org/zap"
)

/*
Node is a vertex of a decision tree. There is no separate tree type: a tree is
its root node.

A node owns a set of row IDs of a shared dataset, split in two disjoint sets:
the distributed ones, already handed to one of its children, and the remaining
ones, not yet handed to any. Once split, children[i] owns the rows whose value
for the split column lies in (thresholds[i], thresholds[i+1]], with the first
and last thresholds being -Inf and +Inf. A trailing catch-all child may own the
rows no interval could hold.

The parent pointer is only followed to read lineage information, never to
mutate the parent.
*/
type Node struct {
	data        *dataset.Dataset
	target      int
	level       int
	parent      *Node
	whichChild  int
	distributed *treeset.Set
	remaining   *treeset.Set
	children    []*Node

	hasSplit        bool
	splitColumn     int
	splitThresholds []float64

	terminal bool
	hasClass bool
	class    int

	// computed once at construction from the node's full index set
	entropy float64

	log         *zap.SugaredLogger
	parallelism int
}

type settings struct {
	indices     []int
	hasIndices  bool
	logger      *zap.SugaredLogger
	parallelism int
}

// Option configures a root node. Children inherit the root's configuration.
type Option func(*settings)

/*
Indices makes the root own only the given row IDs instead of every row of
the dataset.
*/
func Indices(ids ...int) Option {
	return func(s *settings) {
		s.indices = ids
		s.hasIndices = true
	}
}

// Logger sets the logger the tree reports warnings and progress to.
func Logger(l *zap.SugaredLogger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

/*
Parallelism sets how many columns may be searched for a split threshold at
the same time. It defaults to 1.
*/
func Parallelism(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

func defaultSettings() *settings {
	return &settings{logger: zap.NewNop().Sugar(), parallelism: 1}
}

/*
NewRoot takes a dataset, the column of its integer target feature and options
and returns the root node of a new tree or an error. The root owns every row
of the dataset unless the Indices option says otherwise.
*/
func NewRoot(data *dataset.Dataset, target int, opts ...Option) (*Node, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(s)
	}
	var indices []int
	if s.hasIndices {
		indices = s.indices
		if indices == nil {
			indices = []int{}
		}
	}
	return newNode(data, target, 0, nil, 0, indices, s.logger, s.parallelism)
}

/*
New takes a dataset, a target column, a level, a parent node and a slice of
row IDs and returns a node for them or an error.

A nil indices slice is only accepted for a root (level 0, nil parent) and
stands for every row of the dataset; non root nodes must be given an explicit,
possibly empty, slice. A non root node must be given a parent one level above
it sharing its dataset and target column. The returned node is not attached
to the parent: use AddNewChild for that.
*/
func New(data *dataset.Dataset, target, level int, parent *Node, indices []int) (*Node, error) {
	s := defaultSettings()
	whichChild := 0
	if parent != nil {
		s.logger, s.parallelism = parent.log, parent.parallelism
		whichChild = len(parent.children)
	}
	return newNode(data, target, level, parent, whichChild, indices, s.logger, s.parallelism)
}

func newNode(data *dataset.Dataset, target, level int, parent *Node, whichChild int, indices []int, log *zap.SugaredLogger, parallelism int) (*Node, error) {
	if data == nil {
		return nil, fmt.Errorf("creating node: nil dataset: %w", ErrDataValidation)
	}
	if level < 0 {
		return nil, fmt.Errorf("creating node: negative level %d: %w", level, ErrStructure)
	}
	if level > 0 && parent == nil {
		return nil, fmt.Errorf("creating node: level %d node without parent: %w", level, ErrStructure)
	}
	if level == 0 && parent != nil {
		return nil, fmt.Errorf("creating node: root node with parent: %w", ErrStructure)
	}
	if parent != nil {
		if level != parent.level+1 {
			return nil, fmt.Errorf("creating node: level %d under a level %d parent: %w", level, parent.level, ErrStructure)
		}
		if data != parent.data {
			return nil, fmt.Errorf("creating node: dataset differs from parent's: %w", ErrStructure)
		}
		if target != parent.target {
			return nil, fmt.Errorf("creating node: target column %d differs from parent's %d: %w", target, parent.target, ErrStructure)
		}
	}
	if indices == nil {
		if level > 0 {
			return nil, fmt.Errorf("creating level %d node: no indices given: %w", level, ErrStructure)
		}
		indices = data.IDs()
	}
	if data.Feature(target) == nil {
		return nil, fmt.Errorf("creating node: target column %d out of range [0, %d): %w", target, data.NColumns(), ErrDataValidation)
	}
	if _, ok := data.Feature(target).(*feature.IntegerFeature); !ok {
		return nil, fmt.Errorf("creating node: target %s is not an integer feature: %w", data.Feature(target).Name(), ErrDataValidation)
	}
	n := &Node{
		data:        data,
		target:      target,
		level:       level,
		parent:      parent,
		whichChild:  whichChild,
		distributed: treeset.NewWithIntComparator(),
		remaining:   treeset.NewWithIntComparator(),
		log:         log,
		parallelism: parallelism,
	}
	for _, id := range indices {
		if !data.Has(id) {
			return nil, fmt.Errorf("creating node: unknown row %d: %w", id, ErrDataValidation)
		}
		if _, err := data.Label(id, target); err != nil {
			return nil, fmt.Errorf("creating node: target %s of row %d: %v: %w", data.Feature(target).Name(), id, err, ErrDataValidation)
		}
		n.remaining.Add(id)
	}
	n.entropy = Entropy(n.Labels())
	return n, nil
}

/*
AddNewChild takes a slice of row IDs, creates a child one level below the
node owning exactly those rows, moves them from the node's remaining indices
to its distributed ones and appends the child to its children. It returns
the new child or an error wrapping ErrInvariantViolation if any of the IDs
is not among the remaining indices of the node.
*/
func (n *Node) AddNewChild(ids []int) (*Node, error) {
	for _, id := range ids {
		if !n.remaining.Contains(id) {
			return nil, fmt.Errorf("adding child to node %v: row %d is not pending distribution: %w", n.Trace(), id, ErrInvariantViolation)
		}
	}
	if ids == nil {
		ids = []int{}
	}
	child, err := newNode(n.data, n.target, n.level+1, n, len(n.children), ids, n.log, n.parallelism)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		n.remaining.Remove(id)
		n.distributed.Add(id)
	}
	n.children = append(n.children, child)
	return child, nil
}

// AddFinalChild adds a child owning every remaining index of the node.
func (n *Node) AddFinalChild() (*Node, error) {
	return n.AddNewChild(n.IndicesRemaining())
}

/*
UndoSplit discards the children of the node and returns their indices to the
remaining set. It leaves the terminal flag and split description untouched.
*/
func (n *Node) UndoSplit() {
	if len(n.children) > 0 {
		n.log.Debugf("Undoing split at node %v", n.Trace())
	}
	n.children = nil
	n.remaining.Add(n.distributed.Values()...)
	n.distributed.Clear()
}

func (n *Node) clearSplit() {
	n.hasSplit = false
	n.splitColumn = 0
	n.splitThresholds = nil
}

// Level returns the depth of the node in its tree, 0 for a root.
func (n *Node) Level() int {
	return n.level
}

// Parent returns the parent of the node, nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// WhichChild returns the position of the node among its parent's children.
func (n *Node) WhichChild() int {
	return n.whichChild
}

// Data returns the dataset the node's indices refer to.
func (n *Node) Data() *dataset.Dataset {
	return n.data
}

// Target returns the column of the target feature.
func (n *Node) Target() int {
	return n.target
}

// TargetFeature returns the feature the tree predicts.
func (n *Node) TargetFeature() feature.Feature {
	return n.data.Feature(n.target)
}

// InputColumns returns every column but the target one, in column order.
func (n *Node) InputColumns() []int {
	columns := make([]int, 0, n.data.NColumns())
	for c := 0; c < n.data.NColumns(); c++ {
		if c != n.target {
			columns = append(columns, c)
		}
	}
	return columns
}

// Children returns the children of the node in order.
func (n *Node) Children() []*Node {
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	return children
}

// Indices returns the sorted row IDs owned by the node.
func (n *Node) Indices() []int {
	ids := append(n.IndicesDistributed(), n.IndicesRemaining()...)
	sort.Ints(ids)
	return ids
}

// IndicesDistributed returns the sorted row IDs already handed to children.
func (n *Node) IndicesDistributed() []int {
	return ints(n.distributed)
}

// IndicesRemaining returns the sorted row IDs not handed to any child.
func (n *Node) IndicesRemaining() []int {
	return ints(n.remaining)
}

// NPoints returns the number of rows owned by the node.
func (n *Node) NPoints() int {
	return n.distributed.Size() + n.remaining.Size()
}

// Labels returns the target values of the node's rows in row ID order.
func (n *Node) Labels() []int {
	return n.labelsOf(n.Indices())
}

// NClasses returns the number of distinct labels among the node's rows.
func (n *Node) NClasses() int {
	return len(LabelCounts(n.Labels()))
}

// Uniform reports whether all the node's rows share a single label.
func (n *Node) Uniform() bool {
	return n.NClasses() == 1
}

// Resolved reports whether the node is terminal or has no remaining indices.
func (n *Node) Resolved() bool {
	return n.terminal || n.remaining.Empty()
}

// Terminal reports whether the node is a leaf.
func (n *Node) Terminal() bool {
	return n.terminal
}

/*
PredictedClass returns the class predicted by a terminal node and true, or
0 and false if the node is not terminal or there were no rows to predict from.
*/
func (n *Node) PredictedClass() (int, bool) {
	return n.class, n.terminal && n.hasClass
}

// SplitColumn returns the column the node was split on and whether it was.
func (n *Node) SplitColumn() (int, bool) {
	return n.splitColumn, n.hasSplit
}

// SplitFeature returns the feature the node was split on, nil if it was not.
func (n *Node) SplitFeature() feature.Feature {
	if !n.hasSplit {
		return nil
	}
	return n.data.Feature(n.splitColumn)
}

/*
SplitThresholds returns the thresholds of the node's split, including the
bracketing -Inf and +Inf, or nil if the node was not split.
*/
func (n *Node) SplitThresholds() []float64 {
	if !n.hasSplit {
		return nil
	}
	th := make([]float64, len(n.splitThresholds))
	copy(th, n.splitThresholds)
	return th
}

/*
ThresholdsForChild returns the interval (low, high] of the i-th child of the
node. It returns false if the node was not split or the child is not one of
the interval children.
*/
func (n *Node) ThresholdsForChild(i int) (low, high float64, ok bool) {
	if !n.hasSplit || i < 0 || i+1 >= len(n.splitThresholds) {
		return 0, 0, false
	}
	return n.splitThresholds[i], n.splitThresholds[i+1], true
}

/*
Entropy returns the entropy of the labels of the node as computed when the
node was created. It is not recomputed afterwards; as a node never gains nor
loses rows, the value stays accurate.
*/
func (n *Node) Entropy() float64 {
	return n.entropy
}

// Depth returns the height of the subtree under the node, 0 for a leaf.
func (n *Node) Depth() int {
	depth := 0
	for _, c := range n.children {
		if d := c.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// rows were validated at construction
func (n *Node) label(id int) int {
	l, _ := n.data.Label(id, n.target)
	return l
}

func (n *Node) labelsOf(ids []int) []int {
	labels := make([]int, len(ids))
	for i, id := range ids {
		labels[i] = n.label(id)
	}
	return labels
}

func ints(s *treeset.Set) []int {
	values := s.Values()
	result := make([]int, len(values))
	for i, v := range values {
		result[i] = v.(int)
	}
	return result
}
