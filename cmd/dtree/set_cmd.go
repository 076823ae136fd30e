package main

import (
	"fmt"
	"os"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/dataset/csv"
	"github.com/savetheginger/dtree/feature"
	"github.com/savetheginger/dtree/feature/yaml"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	setOutput     string
	intervals     []string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Copy a set of data between CSV files, SQLite3 files, PostgreSQL and MongoDB databases`,
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

			output, err := config.OutputWriter(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}

			inputStream, errStream, err := config.InputStream(features, criteria)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}

			var count int
			for s := range inputStream {
				_, err = output.Write(config.Context(), []dataset.Sample{s})
				if err != nil {
					config.ContextCancelFunc()()
					break
				}
				count++
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			err = <-errStream
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Flushing output set...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Done, %d samples copied", count)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the set to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT in CSV)")
	cmd.PersistentFlags().StringArrayVar(&(config.intervals), "interval", nil, intervalFlagUsage)
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (scc *setCmdConfig) OutputWriter(features []feature.Feature) (writableSet, error) {
	if kindOf(scc.setOutput) != csvStore {
		store, closeStore, err := scc.openStore(scc.Context(), scc.setOutput, features, true, nil)
		if err != nil {
			return nil, err
		}
		return &flushableSampleWriter{store, closeStore}, nil
	}
	if scc.setOutput == "" {
		scc.Logf("Using STDOUT to dump output set...")
		return csv.NewWriter(os.Stdout, features)
	}
	scc.Logf("Creating %s to dump output set...", scc.setOutput)
	outputFile, err := os.Create(scc.setOutput)
	if err != nil {
		return nil, err
	}
	scc.Logf("Preparing to write output set...")
	output, err := csv.NewWriter(outputFile, features)
	if err != nil {
		outputFile.Close()
		return nil, err
	}
	return &csvFileWriter{output, outputFile}, nil
}

/*
InputStream returns a channel on which the samples of the input set meeting
every criterion are sent, and an error channel on which at most one error is
sent once reading ends.
*/
func (scc *setCmdConfig) InputStream(features []feature.Feature, criteria []feature.Criterion) (<-chan dataset.Sample, <-chan error, error) {
	if kindOf(scc.setInput) != csvStore {
		store, closeStore, err := scc.openStore(scc.Context(), scc.setInput, features, false, criteria)
		if err != nil {
			return nil, nil, err
		}
		samples, errs := store.Read(scc.Context())
		return samples, closeAfter(errs, closeStore), nil
	}
	if scc.setInput == "" {
		scc.Logf("Reading input set from STDIN and dumping it into output set...")
	} else {
		scc.Logf("Reading input set from %s and dumping it into output set...", scc.setInput)
	}
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error, 1)
	go func() {
		defer close(sampleStream)
		defer close(errStream)
		err := csv.ReadBySampleFromFilePath(scc.setInput, features, func(i int, s dataset.Sample) (bool, error) {
			if ok, err := satisfiesAll(criteria, s); !ok {
				return err == nil, err
			}
			select {
			case <-scc.Context().Done():
				return false, nil
			case sampleStream <- s:
			}
			return true, nil
		})
		if err != nil {
			errStream <- err
		}
	}()
	return sampleStream, errStream, nil
}

// csvFileWriter closes the file it writes on once flushed.
type csvFileWriter struct {
	csv.Writer
	file *os.File
}

func (cfw *csvFileWriter) Flush() error {
	err := cfw.Writer.Flush()
	if cerr := cfw.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// closeAfter relays errs and calls closeFunc once errs is closed.
func closeAfter(errs <-chan error, closeFunc func() error) <-chan error {
	relay := make(chan error, 1)
	go func() {
		defer close(relay)
		err := <-errs
		if cerr := closeFunc(); err == nil {
			err = cerr
		}
		if err != nil {
			relay <- err
		}
	}()
	return relay
}
