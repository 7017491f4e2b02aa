package filter

import "errors"

var (
	// ErrUnknownTag is returned for a Tag outside the defined set.
	ErrUnknownTag = errors.New("filter: unknown tag")

	// ErrArity is returned when a parameter vector has the wrong length
	// for its tag.
	ErrArity = errors.New("filter: wrong number of parameters")
)
