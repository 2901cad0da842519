package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationNotFound    = errors.New("payroll configuration not found")
	ErrInvalidBracketTable      = errors.New("invalid tax bracket table")
	ErrUnsupportedDeductionKind = errors.New("unsupported deduction kind")
	ErrInvalidInput             = errors.New("invalid calculation input")
)

// CalcError carries the error kind plus the offending field so callers can
// report exactly which piece of input or configuration is bad. Kind is one of
// the sentinels above and is matched with errors.Is.
type CalcError struct {
	Kind    error
	Field   string
	Message string
}

func (e *CalcError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *CalcError) Unwrap() error {
	return e.Kind
}

func invalidInput(field, message string) error {
	return &CalcError{Kind: ErrInvalidInput, Field: field, Message: message}
}

func invalidBrackets(field, message string) error {
	return &CalcError{Kind: ErrInvalidBracketTable, Field: field, Message: message}
}

func configNotFound(field string, taxYear int) error {
	return &CalcError{Kind: ErrConfigurationNotFound, Field: field, Message: fmt.Sprintf("no configuration published for tax year %d", taxYear)}
}

func unsupportedKind(kind DeductionKind) error {
	return &CalcError{Kind: ErrUnsupportedDeductionKind, Field: string(kind), Message: "deduction kind is not recognized by the catalog"}
}
