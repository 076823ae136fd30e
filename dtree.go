/*
Package dtree learns binary-split decision trees that predict an integer
class from numeric features, prunes them and measures how well they do.

The tree itself lives in the tree package; this package wires learning,
pruning and evaluation together.
*/
package dtree

import (
	"fmt"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/tree"
	"go.uber.org/zap"
)

/*
Train takes a dataset, the row IDs to train on, the column of the target
feature, a Config and a logger, and returns the root of a tree learned from
the rows and pruned, or an error. Nil trainIDs stand for every row of the
dataset. A nil logger discards everything.
*/
func Train(data *dataset.Dataset, trainIDs []int, target int, config Config, log *zap.SugaredLogger) (*tree.Node, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	opts := []tree.Option{tree.Logger(log), tree.Parallelism(config.Parallelism)}
	if trainIDs != nil {
		opts = append(opts, tree.Indices(trainIDs...))
	}
	root, err := tree.NewRoot(data, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating tree root: %w", err)
	}
	log.Debugf("Learning tree from %d samples with max depth %d and granularity %d", root.NPoints(), config.MaxDepth, config.Granularity)
	if err = root.Learn(config.MaxDepth, config.Granularity); err != nil {
		return nil, fmt.Errorf("learning tree: %w", err)
	}
	log.Debugf("Pruning tree with min points %d", config.MinPoints)
	root.Prune(config.MinPoints)
	return root, nil
}

/*
TrainAndTest trains a tree as Train does on the trainIDs rows of the dataset
and evaluates it on its testIDs rows. It returns the true labels of the test
rows and the labels predicted for them, in testIDs order.
*/
func TrainAndTest(data *dataset.Dataset, trainIDs, testIDs []int, target int, config Config, log *zap.SugaredLogger) (trueLabels, predicted []int, err error) {
	root, err := Train(data, trainIDs, target, config, log)
	if err != nil {
		return nil, nil, err
	}
	trueLabels, predicted, _, err = root.Evaluate(data, testIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("testing tree: %w", err)
	}
	return trueLabels, predicted, nil
}
