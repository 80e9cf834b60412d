package shared

import (
	"errors"
	"fmt"
)

type ErrorSource int

const (
	ErrorSourceParse ErrorSource = iota
	ErrorSourceConstraint
	ErrorSourceExecution
	ErrorSourceModel
	ErrorSourceValidation
	ErrorSourceUnknown
)

func (s ErrorSource) String() string {
	switch s {
	case ErrorSourceParse:
		return "parse"
	case ErrorSourceConstraint:
		return "constraint"
	case ErrorSourceExecution:
		return "execution"
	case ErrorSourceModel:
		return "model"
	case ErrorSourceValidation:
		return "validation"
	default:
		return "unknown"
	}
}

type EngineError struct {
	Source  ErrorSource
	Message string
	Err     error
}

func Errorf(source ErrorSource, format string, a ...any) *EngineError {
	return &EngineError{
		Source:  source,
		Message: fmt.Sprintf(format, a...),
	}
}

func Wrap(source ErrorSource, err error, format string, a ...any) *EngineError {
	return &EngineError{
		Source:  source,
		Message: fmt.Sprintf(format, a...),
		Err:     err,
	}
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func (e *EngineError) As(target interface{}) bool {
	return errors.As(e.Err, target)
}
