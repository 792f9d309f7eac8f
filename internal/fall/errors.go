package fall

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter indicates a parameter that is not strictly positive and finite.
	ErrInvalidParameter = errors.New("fall: invalid parameter")

	// ErrNumericDomain indicates a derived quantity that cannot be represented.
	ErrNumericDomain = errors.New("fall: numeric domain error")

	// ErrSampleLimit indicates a trajectory that would exceed the simulator's sample limit.
	ErrSampleLimit = errors.New("fall: trajectory exceeds sample limit")
)

// ParameterError names the input that failed validation.
type ParameterError struct {
	Name  string
	Value float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("fall: %s must be positive and finite, got %g", e.Name, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// DomainError reports a derived quantity that came out non-finite or non-positive.
type DomainError struct {
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("fall: %s is not representable (got %g)", e.Quantity, e.Value)
}

func (e *DomainError) Unwrap() error {
	return ErrNumericDomain
}
