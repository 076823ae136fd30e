/*
Package csv reads and writes datasets as CSV streams.

The first row of a stream is a header with feature names. Every other row
holds one sample, with '?' standing for an undefined value.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
)

// Undefined is the CSV cell content for an undefined value.
const Undefined = "?"

/*
Writer is an interface for a CSV stream to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given samples and will return
	// the actually written number of samples and an error (if not all
	// samples could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// WriteSample writes a single sample
	WriteSample(dataset.Sample) error
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream and a slice of features and
returns a dataset.Dataset with the given features as columns and the samples
parsed from the reader, identified by their row order starting at 0.

The header must name every feature in the slice. Header columns that name
no feature are ignored.
*/
func ReadDataset(reader io.Reader, features []feature.Feature) (*dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadBySample(reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(features, samples)
}

/*
ReadBySample takes an io.Reader for a CSV stream, a slice of features and a
lambda function on an integer and a dataset.Sample that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda function
with the sample and its index as parameters. If the lambda function returns true,
it will continue processing the next sample, otherwise it will stop. An error is
returned if something goes wrong when reading the stream or parsing a sample.
*/
func ReadBySample(reader io.Reader, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	positions, err := parseHeader(header, features)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseRow(row, features, positions)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string and a slice of features,
opens the file to which the filepath points to and uses ReadDataset to return
a dataset.Dataset read from it or an error. If the filepath is "" os.Stdin is
read instead.
*/
func ReadDatasetFromFilePath(filepath string, features []feature.Feature) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	d, err := ReadDataset(f, features)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return d, err
}

/*
ReadBySampleFromFilePath works as ReadBySample on the file the filepath
points to, or on os.Stdin if the filepath is "".
*/
func ReadBySampleFromFilePath(filepath string, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	return ReadBySample(f, features, lambda)
}

/*
NewWriter takes an io.Writer and a slice of feature.Features,
writes the header for the features and returns a Writer that will
write any samples on the io.Writer.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(feature.Names(features))
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

/*
WriteDataset takes a writer and a dataset.Dataset and dumps the dataset to
the writer in CSV format, in row ID order. It returns an error if something
went wrong when writing to the writer or codifying the samples.
*/
func WriteDataset(ctx context.Context, writer io.Writer, d *dataset.Dataset) error {
	cw, err := NewWriter(writer, d.Features())
	if err != nil {
		return err
	}
	samples, err := d.Samples(d.IDs())
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(header []string, features []feature.Feature) ([]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := columns[name]; ok {
			return nil, fmt.Errorf("parsing header: column %s appears more than once", name)
		}
		columns[name] = i
	}
	positions := make([]int, len(features))
	for i, f := range features {
		p, ok := columns[f.Name()]
		if !ok {
			return nil, fmt.Errorf("parsing header: missing column for feature %s", f.Name())
		}
		positions[i] = p
	}
	return positions, nil
}

func parseRow(row []string, features []feature.Feature, positions []int) (dataset.Sample, error) {
	featureValues := make(map[string]interface{})
	for i, f := range features {
		v := row[positions[i]]
		if v == Undefined {
			continue
		}
		var value interface{}
		var err error
		switch f.(type) {
		case *feature.IntegerFeature:
			value, err = strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("converting %s to int: %v", v, err)
			}
		case *feature.ContinuousFeature:
			value, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("converting %s to float64: %v", v, err)
			}
		default:
			return nil, fmt.Errorf("feature %s of unsupported type %T", f.Name(), f)
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", value, value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return dataset.NewSample(featureValues), nil
}

func formatValue(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return Undefined
	case int:
		return strconv.Itoa(tv)
	case float64:
		return strconv.FormatFloat(tv, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, s := range samples {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := cw.WriteSample(s); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) WriteSample(sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(f)
		if err != nil {
			return err
		}
		record[j] = formatValue(v)
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
