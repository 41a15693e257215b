package formula

import (
	"fmt"
	"strings"
)

// ErrorKind distinguishes the rejection stages of the formula pipeline. Each
// kind maps to a distinct user-visible message placed next to the formula
// input; none of them is ever fatal to the request.
type ErrorKind string

const (
	// KindInvalidCharacter: the raw text contains symbols outside the
	// arithmetic whitelist.
	KindInvalidCharacter ErrorKind = "invalid_character"
	// KindUnresolvedColumn: an identifier token is neither a dataset column
	// nor an allowed function name.
	KindUnresolvedColumn ErrorKind = "unresolved_column"
	// KindEvaluationFailure: the text passed the whitelist but does not
	// parse or evaluate (e.g. unbalanced parentheses).
	KindEvaluationFailure ErrorKind = "evaluation_failure"
)

// Error is the structured failure returned by validation and evaluation.
type Error struct {
	Kind    ErrorKind
	Message string
	// Tokens lists the offending identifiers for KindUnresolvedColumn.
	Tokens []string
}

func (e *Error) Error() string {
	return e.Message
}

func invalidCharacterError() *Error {
	return &Error{
		Kind:    KindInvalidCharacter,
		Message: "Invalid characters in formula",
	}
}

func unresolvedColumnError(tokens []string) *Error {
	return &Error{
		Kind:    KindUnresolvedColumn,
		Message: "Columns not found: " + strings.Join(tokens, ", "),
		Tokens:  tokens,
	}
}

func evaluationError(detail error) *Error {
	return &Error{
		Kind: KindEvaluationFailure,
		Message: fmt.Sprintf(
			"Formula error: %v. Make sure to use proper column names and operators (+, -, *, /)",
			detail,
		),
	}
}
