package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoCategoryData    = errors.New("no documents for category")
	ErrEmptyVector       = errors.New("empty tf-idf vector")
	ErrInvariant         = errors.New("invariant violation")
	ErrUndefinedAccuracy = errors.New("accuracy undefined for zero classified documents")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
