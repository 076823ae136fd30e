package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/dataset/csv"
	"github.com/savetheginger/dtree/feature/yaml"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a CSV set into an ouput set and a split set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Features from metadata read")
			criteria, err := parseIntervals(config.intervals, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			outputFile := os.Stdout
			if config.setOutput != "" {
				config.Logf("Creating %s to dump output set...", config.setOutput)
				outputFile, err = os.Create(config.setOutput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				defer outputFile.Close()
			} else {
				config.Logf("Using STDOUT to dump output set...")
			}
			output, err := csv.NewWriter(outputFile, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			config.Logf("Creating %s to dump split set...", config.splitOutput)
			splitOutputFile, err := os.Create(config.splitOutput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer splitOutputFile.Close()
			splitOutput, err := csv.NewWriter(splitOutputFile, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}

			seed := config.seed
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			randomizer := rand.New(rand.NewSource(seed))
			splitter := func(i int, s dataset.Sample) (bool, error) {
				ok, err := satisfiesAll(criteria, s)
				if !ok {
					return err == nil, err
				}
				if (100 * randomizer.Float32()) >= float32(config.splitProbability) {
					err = output.WriteSample(s)
				} else {
					err = splitOutput.WriteSample(s)
				}
				if err != nil {
					return false, err
				}
				return true, nil
			}
			config.Logf("Splitting input set into output and split output sets with seed %d...", seed)
			err = csv.ReadBySampleFromFilePath(config.setInput, features, splitter)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Flushing output set...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			config.Logf("Flushing split set...")
			err = splitOutput.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
			config.Logf("Done")
			config.Logf("Input set with %d samples was split into sets with %d and %d samples", output.Count()+splitOutput.Count(), output.Count(), splitOutput.Count())
		},
	}
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the output of the split set (required)")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random split (defaults to the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if err := scc.setCmdConfig.Validate(); err != nil {
		return err
	}
	if kindOf(scc.setInput) != csvStore || kindOf(scc.setOutput) != csvStore {
		return fmt.Errorf("split works on CSV sets only")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}
