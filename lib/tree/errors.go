package tree

import (
	"errors"
)

var (
	// ErrComparatorRequired is raised when keys without a natural order
	// are compared and no comparator was supplied.
	ErrComparatorRequired = errors.New("[tree] comparator required for keys without natural order")
	ErrInvalidRange       = errors.New("[tree] invalid range, low is greater than high")
)
