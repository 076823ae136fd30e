package dataset

import (
	"fmt"
	"math/rand"
	"sort"
)

/*
RandomSplit takes a dataset, an integer percent between 0 and 100 and a
random source and splits the row IDs of the dataset into a training and a
testing slice, the latter holding percent% of the rows (rounded down).
Both slices are returned sorted. The same source seed yields the same split.
*/
func RandomSplit(d *Dataset, percent int, r *rand.Rand) (train, test []int, err error) {
	if percent < 0 || percent > 100 {
		return nil, nil, fmt.Errorf("split percent must be between 0 and 100, got %d", percent)
	}
	ids := d.IDs()
	r.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	nTest := len(ids) * percent / 100
	test = ids[:nTest]
	train = ids[nTest:]
	sort.Ints(test)
	sort.Ints(train)
	return train, test, nil
}
