package dataset

import (
	"fmt"
	"math"

	"github.com/savetheginger/dtree/feature"
)

/*
Dataset is an immutable table of samples with an ordered list of features as
columns. Every sample is identified by an int row ID; IDs are unique but need
not be contiguous nor start at zero.

A Dataset is meant to be shared by reference: nothing in this module ever
mutates one after it is built.
*/
type Dataset struct {
	features  []feature.Feature
	columns   map[string]int
	ids       []int
	positions map[int]int
	samples   []Sample
}

/*
New takes a slice of features and a slice of samples and returns a dataset
with them, identifying samples by their position on the slice, or an error
if any sample holds an invalid value for a feature.
*/
func New(features []feature.Feature, samples []Sample) (*Dataset, error) {
	ids := make([]int, len(samples))
	for i := range ids {
		ids[i] = i
	}
	return NewWithIDs(features, ids, samples)
}

/*
NewWithIDs takes a slice of features, a slice of row IDs and a slice of samples
of the same length and returns a dataset where the i-th sample is identified
by the i-th ID. It returns an error if lengths differ, IDs are repeated,
feature names are repeated or any sample holds an invalid value for a feature.
*/
func NewWithIDs(features []feature.Feature, ids []int, samples []Sample) (*Dataset, error) {
	if len(ids) != len(samples) {
		return nil, fmt.Errorf("got %d row IDs for %d samples", len(ids), len(samples))
	}
	d := &Dataset{
		features:  features,
		columns:   make(map[string]int, len(features)),
		ids:       ids,
		positions: make(map[int]int, len(ids)),
		samples:   samples,
	}
	for i, f := range features {
		if _, ok := d.columns[f.Name()]; ok {
			return nil, fmt.Errorf("feature %s appears more than once", f.Name())
		}
		d.columns[f.Name()] = i
	}
	for i, id := range ids {
		if _, ok := d.positions[id]; ok {
			return nil, fmt.Errorf("row ID %d appears more than once", id)
		}
		d.positions[id] = i
		for _, f := range features {
			v, err := samples[i].ValueFor(f)
			if err != nil {
				return nil, fmt.Errorf("reading %s of row %d: %v", f.Name(), id, err)
			}
			if ok, err := f.Valid(v); !ok {
				return nil, fmt.Errorf("row %d: %v", id, err)
			}
		}
	}
	return d, nil
}

// Features returns the features of the dataset in column order.
func (d *Dataset) Features() []feature.Feature {
	return d.features
}

// NColumns returns the number of columns of the dataset.
func (d *Dataset) NColumns() int {
	return len(d.features)
}

// Feature returns the feature at the given column or nil if there is none.
func (d *Dataset) Feature(column int) feature.Feature {
	if column < 0 || column >= len(d.features) {
		return nil
	}
	return d.features[column]
}

// Column returns the column of the feature with the given name.
func (d *Dataset) Column(name string) (int, bool) {
	c, ok := d.columns[name]
	return c, ok
}

// IDs returns a copy of the row IDs of the dataset in row order.
func (d *Dataset) IDs() []int {
	ids := make([]int, len(d.ids))
	copy(ids, d.ids)
	return ids
}

// Len returns the number of samples in the dataset.
func (d *Dataset) Len() int {
	return len(d.samples)
}

// Has reports whether the dataset has a row with the given ID.
func (d *Dataset) Has(id int) bool {
	_, ok := d.positions[id]
	return ok
}

// Sample returns the sample with the given row ID.
func (d *Dataset) Sample(id int) (Sample, bool) {
	p, ok := d.positions[id]
	if !ok {
		return nil, false
	}
	return d.samples[p], true
}

/*
Samples takes a slice of row IDs and returns the samples they identify in
the same order, or an error if any of them is unknown.
*/
func (d *Dataset) Samples(ids []int) ([]Sample, error) {
	samples := make([]Sample, 0, len(ids))
	for _, id := range ids {
		s, ok := d.Sample(id)
		if !ok {
			return nil, fmt.Errorf("unknown row ID %d", id)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Value returns the raw value of the given row and column.
func (d *Dataset) Value(id, column int) (interface{}, error) {
	s, f, err := d.cell(id, column)
	if err != nil {
		return nil, err
	}
	return s.ValueFor(f)
}

/*
Float returns the value of the given row and column as a float64, NaN if the
value is undefined.
*/
func (d *Dataset) Float(id, column int) (float64, error) {
	s, f, err := d.cell(id, column)
	if err != nil {
		return math.NaN(), err
	}
	return Float(s, f)
}

// Label returns the value of the given row and column as an int.
func (d *Dataset) Label(id, column int) (int, error) {
	s, f, err := d.cell(id, column)
	if err != nil {
		return 0, err
	}
	return Int(s, f)
}

func (d *Dataset) cell(id, column int) (Sample, feature.Feature, error) {
	f := d.Feature(column)
	if f == nil {
		return nil, nil, fmt.Errorf("column %d out of range [0, %d)", column, len(d.features))
	}
	s, ok := d.Sample(id)
	if !ok {
		return nil, nil, fmt.Errorf("unknown row ID %d", id)
	}
	return s, f, nil
}
