package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/savetheginger/dtree/dataset"
	"github.com/savetheginger/dtree/dataset/csv"
	"github.com/savetheginger/dtree/dataset/mongodataset"
	"github.com/savetheginger/dtree/dataset/sqldataset"
	"github.com/savetheginger/dtree/dataset/sqldataset/pgadapter"
	"github.com/savetheginger/dtree/dataset/sqldataset/sqlite3adapter"
	"github.com/savetheginger/dtree/feature"
	mgo "gopkg.in/mgo.v2"
)

type storeKind int

const (
	csvStore storeKind = iota
	sqlite3Store
	postgreSQLStore
	mongoDBStore
)

func (k storeKind) String() string {
	switch k {
	case sqlite3Store:
		return "SQLite3"
	case postgreSQLStore:
		return "PostgreSQL"
	case mongoDBStore:
		return "MongoDB"
	default:
		return "CSV"
	}
}

type sampleWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
}

type writableSet interface {
	sampleWriter
	Flush() error
}

type sampleStore interface {
	sampleWriter
	Count(context.Context) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
	Dataset(context.Context) (*dataset.Dataset, error)
}

type flushableSampleWriter struct {
	sampleWriter
	close func() error
}

/*
kindOf tells how a location given on the command line is to be read or
written: PostgreSQL and MongoDB connection URLs, SQLite3 .db files, and
CSV files (or STDIN/STDOUT for "") otherwise.
*/
func kindOf(location string) storeKind {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return postgreSQLStore
	case strings.HasPrefix(location, "mongodb://"):
		return mongoDBStore
	case strings.HasSuffix(location, ".db"):
		return sqlite3Store
	default:
		return csvStore
	}
}

/*
openStore opens the database store at location, creating its samples table
when create is true, and restricts it to the samples meeting every given
criterion. It returns the store and a function releasing its connection.
*/
func (rc *rootCmdConfig) openStore(ctx context.Context, location string, features []feature.Feature, create bool, criteria []feature.Criterion) (sampleStore, func() error, error) {
	kind := kindOf(location)
	rc.Logf("Connecting to %s store at %s...", kind, location)
	switch kind {
	case mongoDBStore:
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %v", location, err)
		}
		store, err := mongodataset.Open(ctx, session, features)
		for i := 0; err == nil && i < len(criteria); i++ {
			store, err = store.SubsetWith(criteria[i])
		}
		if err != nil {
			session.Close()
			return nil, nil, err
		}
		return store, func() error { session.Close(); return nil }, nil
	case sqlite3Store, postgreSQLStore:
		var adapter sqldataset.Adapter
		var err error
		if kind == sqlite3Store {
			adapter, err = sqlite3adapter.New(location)
		} else {
			adapter, err = pgadapter.New(location)
		}
		if err != nil {
			return nil, nil, err
		}
		var store *sqldataset.Store
		if create {
			store, err = sqldataset.Create(ctx, adapter, features)
		} else {
			store, err = sqldataset.Open(ctx, adapter, features)
		}
		for i := 0; err == nil && i < len(criteria); i++ {
			store, err = store.SubsetWith(criteria[i])
		}
		if err != nil {
			adapter.Close()
			return nil, nil, err
		}
		return store, adapter.Close, nil
	default:
		return nil, nil, fmt.Errorf("%s is not a database location", location)
	}
}

/*
readDataset reads the samples meeting every given criterion from location,
a CSV file (STDIN for "") or a database store. CSV rows keep their position
in the file as row IDs.
*/
func (rc *rootCmdConfig) readDataset(ctx context.Context, location string, features []feature.Feature, criteria []feature.Criterion) (*dataset.Dataset, error) {
	if kindOf(location) == csvStore {
		if location == "" {
			rc.Logf("Reading dataset from STDIN...")
		} else {
			rc.Logf("Reading dataset from %s...", location)
		}
		if len(criteria) == 0 {
			return csv.ReadDatasetFromFilePath(location, features)
		}
		var ids []int
		var samples []dataset.Sample
		err := csv.ReadBySampleFromFilePath(location, features, func(i int, s dataset.Sample) (bool, error) {
			ok, err := satisfiesAll(criteria, s)
			if ok {
				ids = append(ids, i)
				samples = append(samples, s)
			}
			return err == nil, err
		})
		if err != nil {
			return nil, err
		}
		rc.Logf("%d samples meet the given intervals", len(samples))
		return dataset.NewWithIDs(features, ids, samples)
	}
	store, closeStore, err := rc.openStore(ctx, location, features, false, criteria)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return store.Dataset(ctx)
}

func (fsw *flushableSampleWriter) Flush() error {
	if fsw.close == nil {
		return nil
	}
	return fsw.close()
}
