package features

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMissingFeature = errors.New("missing feature")
	ErrFeatureKind    = errors.New("unexpected feature kind")
	ErrDTypeMismatch  = errors.New("dtype mismatch")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrUnsupported    = errors.New("unsupported tensor encoding")
	ErrInvalidSpec    = errors.New("invalid feature spec")
)

// FeatureError ties a parse failure to the feature key that caused it.
type FeatureError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *FeatureError) Unwrap() error {
	return e.Err
}
