package sqldataset

import (
	"context"
	"fmt"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
)

/*
Store is a set of samples on an SQL database to which samples can be
written and from which they can be read, either as a stream or as a
dataset.Dataset. A Store may be restricted to the samples satisfying some
criteria with SubsetWith.
*/
type Store struct {
	db                  Adapter
	features            []feature.Feature
	criteria            []*FeatureCriterion
	featureNamesColumns map[string]string
	columnFeatures      map[string]feature.Feature
	ifColumns           []string
	cfColumns           []string
}

/*
Open takes an Adapter to a db backend and a slice of feature.Feature
and returns a Store backed by the given adapter or an error if no samples
table is available through the given adapter.
*/
func Open(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (*Store, error) {
	s := &Store{db: dbAdapter, features: features}
	err := s.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	_, err = s.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening samples table: %v", err)
	}
	return s, nil
}

/*
Create takes an Adapter and a slice of feature.Feature and returns a Store
backed by the given adapter or an error. It ensures the samples table exists
on the database.
*/
func Create(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (*Store, error) {
	s := &Store{db: dbAdapter, features: features}
	err := s.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	err = s.db.CreateSampleTable(ctx, s.ifColumns, s.cfColumns)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Features returns the features of the samples in the store.
func (s *Store) Features() []feature.Feature {
	return s.features
}

/*
SubsetWith takes a feature.Criterion and returns a Store restricted to the
samples of s that satisfy it.
*/
func (s *Store) SubsetWith(fc feature.Criterion) (*Store, error) {
	rfc, err := NewFeatureCriteria(fc, s.db.ColumnName)
	if err != nil {
		return nil, err
	}
	criteria := make([]*FeatureCriterion, 0, len(s.criteria)+len(rfc))
	criteria = append(criteria, s.criteria...)
	criteria = append(criteria, rfc...)
	subset := *s
	subset.criteria = criteria
	return &subset, nil
}

// Count returns the number of samples in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.db.CountSamples(ctx, s.criteria)
}

/*
Write adds the given samples to the store and returns the number of samples
actually added and an error if not all could be added.
*/
func (s *Store) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	for i, sample := range samples {
		rs, err := s.newRawSample(sample)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %v", i, err)
		}
		rawSamples = append(rawSamples, rs)
	}
	return s.db.AddSamples(ctx, rawSamples, s.ifColumns, s.cfColumns)
}

/*
Read returns a channel on which the samples of the store are sent and an
error channel on which at most one error is sent. Both are closed when
reading ends or the context is done.
*/
func (s *Store) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		err := s.iterate(ctx, func(_ int, sample dataset.Sample) (bool, error) {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case samples <- sample:
			}
			return true, nil
		})
		if err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

/*
Dataset loads every sample of the store into a dataset.Dataset, using the
"id" column of the samples table as row IDs.
*/
func (s *Store) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	var ids []int
	var samples []dataset.Sample
	err := s.iterate(ctx, func(id int, sample dataset.Sample) (bool, error) {
		ids = append(ids, id)
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return dataset.NewWithIDs(s.features, ids, samples)
}

func (s *Store) iterate(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	return s.db.IterateOnSamples(
		ctx,
		s.criteria,
		s.ifColumns,
		s.cfColumns,
		func(id int, rs map[string]interface{}) (bool, error) {
			return lambda(id, &Sample{Values: rs, FeatureNamesColumns: s.featureNamesColumns})
		})
}

func (s *Store) newRawSample(sample dataset.Sample) (map[string]interface{}, error) {
	rs := make(map[string]interface{})
	for _, f := range s.features {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if ok, err := f.Valid(v); !ok {
			return nil, err
		}
		rs[s.featureNamesColumns[f.Name()]] = v
	}
	return rs, nil
}

func (s *Store) initFeatureColumns() error {
	s.columnFeatures = make(map[string]feature.Feature)
	s.featureNamesColumns = make(map[string]string)
	for _, f := range s.features {
		column, err := s.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		of, ok := s.columnFeatures[column]
		if ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		s.columnFeatures[column] = f
		s.featureNamesColumns[f.Name()] = column
		switch f.(type) {
		case *feature.IntegerFeature:
			s.ifColumns = append(s.ifColumns, column)
		case *feature.ContinuousFeature:
			s.cfColumns = append(s.cfColumns, column)
		default:
			return fmt.Errorf("feature %s of unsupported type %T", f.Name(), f)
		}
	}
	return nil
}
