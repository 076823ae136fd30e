package tree

// Error represents a failure of an operation on a tree node. Operations wrap
// one of the Err values below with context, so callers can match them with
// errors.Is.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	/*
		ErrDataValidation is returned when the dataset cannot back a node: the
		target column is out of range or holds a non integer value for any of
		the node's rows, or an index is not a row of the dataset.
	*/
	ErrDataValidation = Error("invalid data")
	/*
		ErrStructure is returned when the parent/level relation of a node is
		inconsistent, when a node with children is terminated or when a
		prediction is requested from a node that is neither terminal nor split.
	*/
	ErrStructure = Error("invalid tree structure")
	// ErrInvalidSplit is returned when a split on the target column is requested.
	ErrInvalidSplit = Error("invalid split")
	/*
		ErrInvariantViolation is returned when indices handed to a new child
		are not a subset of the indices the parent has yet to distribute.
	*/
	ErrInvariantViolation = Error("index invariant violated")
	// ErrInvalidArgument is returned for negative depths and similar arguments.
	ErrInvalidArgument = Error("invalid argument")
	/*
		ErrNoCandidateSplit is returned when no input column has at least two
		finite values among the node's samples, so there is no threshold to try.
	*/
	ErrNoCandidateSplit = Error("no candidate split")
)
