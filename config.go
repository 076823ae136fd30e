package dtree

import (
	"fmt"

	"github.com/savetheginger/dtree/tree"
)

// Config holds the parameters for learning and pruning a tree.
type Config struct {
	// MaxDepth is the maximum number of splits from the root to any leaf.
	MaxDepth int
	// MinPoints is the minimum number of samples every child of a split must
	// get for the split to survive pruning.
	MinPoints int
	// Granularity makes the threshold search try every Granularity-th
	// candidate. 1 tries them all.
	Granularity int
	// Parallelism is the number of columns searched for thresholds at once.
	Parallelism int
}

// DefaultConfig returns a Config with a max depth of 5, 2 min points, a
// granularity of 10 and no parallelism.
func DefaultConfig() Config {
	return Config{MaxDepth: 5, MinPoints: 2, Granularity: 10, Parallelism: 1}
}

// Validate returns an error wrapping tree.ErrInvalidArgument if any of the
// parameters is out of range.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d: %w", c.MaxDepth, tree.ErrInvalidArgument)
	}
	if c.MinPoints < 0 {
		return fmt.Errorf("min points must not be negative, got %d: %w", c.MinPoints, tree.ErrInvalidArgument)
	}
	if c.Granularity < 1 {
		return fmt.Errorf("granularity must be at least 1, got %d: %w", c.Granularity, tree.ErrInvalidArgument)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d: %w", c.Parallelism, tree.ErrInvalidArgument)
	}
	return nil
}
