package knn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every argument validation failure.
	ErrInvalidArgument = errors.New("knn: invalid argument")

	// ErrNotTrained is returned when predicting before a successful Train.
	ErrNotTrained = errors.New("knn: classifier is not trained")
)

// ErrDimensionMismatch indicates a feature vector whose length differs from
// the expected dimension. Row is the offending row index.
type ErrDimensionMismatch struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("knn: dimension mismatch at row %d: expected %d, got %d", e.Row, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return ErrInvalidArgument }

// ErrInvalidK indicates a neighbor count outside [1, N].
type ErrInvalidK struct {
	K int
	N int
}

func (e *ErrInvalidK) Error() string {
	return fmt.Sprintf("knn: k must be in [1, %d], got %d", e.N, e.K)
}

func (e *ErrInvalidK) Unwrap() error { return ErrInvalidArgument }

// ErrInvalidStrategy indicates an unrecognized distance strategy selector.
type ErrInvalidStrategy struct {
	Strategy Strategy
}

func (e *ErrInvalidStrategy) Error() string {
	return fmt.Sprintf("knn: invalid distance strategy: %d", int(e.Strategy))
}

func (e *ErrInvalidStrategy) Unwrap() error { return ErrInvalidArgument }

// ErrLabelCount indicates that the number of training vectors and labels differ.
type ErrLabelCount struct {
	Vectors int
	Labels  int
}

func (e *ErrLabelCount) Error() string {
	return fmt.Sprintf("knn: %d training vectors but %d labels", e.Vectors, e.Labels)
}

func (e *ErrLabelCount) Unwrap() error { return ErrInvalidArgument }

// ErrInvalidDimension indicates a training set whose vectors have no features.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("knn: invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return ErrInvalidArgument }
