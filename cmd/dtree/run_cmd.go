package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/savetheginger/dtree"
	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/dataset/csv"
	"github.com/savetheginger/dtree/feature"
	"github.com/savetheginger/dtree/feature/yaml"
	"github.com/spf13/cobra"
)

type runCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	testInput     string
	metadataInput string
	classFeature  string
	intervals     []string
	criteria      []feature.Criterion
	testPercent   int
	seed          int64
	dump          bool
	predict       bool
	tree          dtree.Config
}

func runCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &runCmdConfig{rootCmdConfig: rootConfig, tree: dtree.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Learn a tree and test it",
		Long:  `Learn a tree from a training set, prune it and report how well it classifies a testing set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			metadata, err := yaml.ReadMetadataFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Features from metadata read")
			classFeature := config.classFeature
			if classFeature == "" {
				classFeature = metadata.Target
			}
			if classFeature == "" {
				fmt.Fprintln(os.Stderr, "no class-feature flag was set and the metadata defines no target")
				os.Exit(3)
			}

			config.criteria, err = parseIntervals(config.intervals, metadata.Features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			data, err := config.readDataset(config.Context(), config.dataInput, metadata.Features, config.criteria)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			target, ok := data.Column(classFeature)
			if !ok {
				fmt.Fprintf(os.Stderr, "class feature '%s' is not defined\n", classFeature)
				os.Exit(5)
			}
			if _, ok = data.Feature(target).(*feature.IntegerFeature); !ok {
				fmt.Fprintf(os.Stderr, "class feature '%s' is not an integer feature\n", classFeature)
				os.Exit(5)
			}

			trainIDs, testData, testIDs, err := config.trainAndTestRows(cmd, data, metadata.Features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Learning tree from %d samples...", len(trainIDs))
			root, err := dtree.Train(data, trainIDs, target, config.tree, config.Logger())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Tree learned with depth %d", root.Depth())
			if config.dump {
				fmt.Println(root.Dump())
			}

			config.Logf("Testing tree against %d samples...", len(testIDs))
			trueLabels, predicted, _, err := root.Evaluate(testData, testIDs)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			report, err := dtree.NewReport(trueLabels, predicted)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			fmt.Print(report)
			if config.predict {
				if config.dataInput == "" {
					fmt.Fprintln(os.Stderr, "cannot read a sample to predict from STDIN when the input set was read from it")
					os.Exit(10)
				}
				class, err := predict(root, metadata.Features, os.Stdin, os.Stdout, csv.Undefined)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(11)
				}
				fmt.Printf("Predicted %s is %d\n", classFeature, class)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to learn and test the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.testInput), "test-input", "t", "", "path or URL like the input flag with data to test the tree, instead of a random split of the input")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the tree should predict (defaults to the metadata target)")
	cmd.PersistentFlags().StringArrayVar(&(config.intervals), "interval", nil, intervalFlagUsage)
	cmd.PersistentFlags().IntVarP(&(config.testPercent), "test-percent", "p", 20, "percent of the input samples held out for testing when no test input is given")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random train/test split (defaults to the current time)")
	cmd.PersistentFlags().IntVar(&(config.tree.MaxDepth), "max-depth", config.tree.MaxDepth, "maximum number of splits from the root to any leaf")
	cmd.PersistentFlags().IntVar(&(config.tree.MinPoints), "min-points", config.tree.MinPoints, "minimum number of samples on every child of a split for it to survive pruning")
	cmd.PersistentFlags().IntVar(&(config.tree.Granularity), "granularity", config.tree.Granularity, "try every granularity-th candidate threshold when searching for splits")
	cmd.PersistentFlags().IntVar(&(config.tree.Parallelism), "parallelism", config.tree.Parallelism, "number of attributes searched for thresholds at once")
	cmd.PersistentFlags().BoolVarP(&(config.dump), "dump", "d", false, "print the learned tree")
	cmd.PersistentFlags().BoolVar(&(config.predict), "predict", false, "after testing, predict the class of a sample answering questions about its features on STDIN")
	return cmd
}

func (rcc *runCmdConfig) Validate() error {
	if rcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if rcc.testInput == "" && (rcc.testPercent <= 0 || rcc.testPercent >= 100) {
		return fmt.Errorf("test-percent flag was set to an invalid value: it must be set to an integer between 1 and 99")
	}
	return rcc.tree.Validate()
}

/*
trainAndTestRows returns the row IDs of data to train on, and the dataset and
row IDs to test on: the whole of the test input if one was given, or a random
split of data otherwise.
*/
func (rcc *runCmdConfig) trainAndTestRows(cmd *cobra.Command, data *dataset.Dataset, features []feature.Feature) ([]int, *dataset.Dataset, []int, error) {
	if rcc.testInput != "" {
		testData, err := rcc.readDataset(rcc.Context(), rcc.testInput, features, rcc.criteria)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("reading testing set: %v", err)
		}
		return data.IDs(), testData, testData.IDs(), nil
	}
	seed := rcc.seed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	rcc.Logf("Splitting input set with seed %d, holding out %d%% for testing...", seed, rcc.testPercent)
	train, test, err := dataset.RandomSplit(data, rcc.testPercent, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, nil, err
	}
	return train, data, test, nil
}
