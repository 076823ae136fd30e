/*
Package mongodataset provides a sample store that uses a MongoDB database
as backend and can be loaded into a dataset.Dataset.

Samples are documents of a "samples" collection on the session's default
database, with a field per defined feature value.
*/
package mongodataset

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
)

/*
Store is a set of samples on a MongoDB collection to which samples can be
written and from which they can be read, either as a stream or as a
dataset.Dataset.
*/
type Store struct {
	session  *mgo.Session
	features []feature.Feature
	criteria []feature.Criterion
}

/*
Open takes a MongoDB database session and a slice of features and returns a
Store that works on the default database for that session or an error if
the feature names are not valid field names or indexes cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (*Store, error) {
	if err := validateFeatureNames(features); err != nil {
		return nil, err
	}
	s := &Store{session: session, features: features}
	if err := s.ensureIndexes(ctx); err != nil {
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
	switch fc.(type) {
	case feature.IntervalCriterion, feature.UndefinedCriterion:
	default:
		return nil, fmt.Errorf("unsupported criterion %T", fc)
	}
	criteria := make([]feature.Criterion, 0, len(s.criteria)+1)
	criteria = append(criteria, s.criteria...)
	criteria = append(criteria, fc)
	return &Store{s.session, s.features, criteria}, nil
}

// Count returns the number of samples in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.query().Count()
}

/*
Write adds the given samples to the store and returns the number of samples
added or an error.
*/
func (s *Store) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(samples))
	for _, sample := range samples {
		doc := make(bson.M)
		for _, f := range s.features {
			value, err := sample.ValueFor(f)
			if err != nil {
				return 0, err
			}
			if value == nil {
				continue
			}
			if ok, err := f.Valid(value); !ok {
				return 0, err
			}
			doc[f.Name()] = value
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := s.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
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
		err := s.iterate(ctx, func(sample dataset.Sample) bool {
			select {
			case <-ctx.Done():
				return false
			case samples <- sample:
				return true
			}
		})
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

/*
Dataset loads every sample of the store into a dataset.Dataset. Documents
are read in _id order and identified by their position.
*/
func (s *Store) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	var samples []dataset.Sample
	err := s.iterate(ctx, func(sample dataset.Sample) bool {
		samples = append(samples, sample)
		return ctx.Err() == nil
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return dataset.New(s.features, samples)
}

func (s *Store) iterate(ctx context.Context, lambda func(dataset.Sample) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var doc bson.M
	iter := s.query().Sort("_id").Iter()
	for iter.Next(&doc) {
		values, err := normalize(s.features, doc)
		if err != nil {
			iter.Close()
			return err
		}
		if !lambda(dataset.NewSample(values)) {
			break
		}
		doc = nil
	}
	return iter.Close()
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	for _, f := range s.features {
		if err := ctx.Err(); err != nil {
			return err
		}
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := s.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) samplesCollection() *mgo.Collection {
	return s.session.DB("").C(samplesCollectionName)
}

func (s *Store) query() *mgo.Query {
	return s.samplesCollection().Find(query(s.criteria))
}

func validateFeatureNames(features []feature.Feature) error {
	for _, f := range features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
	}
	return nil
}

/*
query translates criteria into a MongoDB query document. Interval criteria
on the same feature are intersected and undefined criteria impose no
conditions.
*/
func query(criteria []feature.Criterion) bson.M {
	q := make(bson.M)
	for _, fc := range criteria {
		ic, ok := fc.(feature.IntervalCriterion)
		if !ok {
			continue
		}
		fName := fc.Feature().Name()
		a, b := ic.Interval()
		rangeValue, _ := q[fName].(bson.M)
		if rangeValue == nil {
			rangeValue = make(bson.M)
		}
		if !math.IsInf(a, 0) {
			v, ok := rangeValue["$gt"].(float64)
			if !ok || v < a {
				rangeValue["$gt"] = a
			}
		}
		if !math.IsInf(b, 0) {
			v, ok := rangeValue["$lte"].(float64)
			if !ok || v > b {
				rangeValue["$lte"] = b
			}
		}
		if len(rangeValue) > 0 {
			q[fName] = rangeValue
		}
	}
	return q
}

/*
normalize takes the features of a store and a document read from it and
returns the feature values of the document as an int for integer features
and a float64 for continuous ones, whatever BSON number type they were
stored as.
*/
func normalize(features []feature.Feature, doc bson.M) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	for _, f := range features {
		v, ok := doc[f.Name()]
		if !ok || v == nil {
			continue
		}
		var fv float64
		switch tv := v.(type) {
		case int:
			fv = float64(tv)
		case int32:
			fv = float64(tv)
		case int64:
			fv = float64(tv)
		case float64:
			fv = tv
		default:
			return nil, fmt.Errorf("document %v has non numeric value %v of type %T for feature %s", doc["_id"], v, v, f.Name())
		}
		switch f.(type) {
		case *feature.IntegerFeature:
			if fv != math.Trunc(fv) {
				return nil, fmt.Errorf("document %v has non integer value %v for feature %s", doc["_id"], v, f.Name())
			}
			values[f.Name()] = int(fv)
		default:
			values[f.Name()] = fv
		}
	}
	return values, nil
}
