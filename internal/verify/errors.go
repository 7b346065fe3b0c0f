package verify

import "fmt"

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeInternal   = "internal"
)

type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return 400
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	default:
		return 500
	}
}

func newError(code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Status:  statusForCode(code),
	}
}

func NewValidationError(format string, args ...any) error {
	return newError(CodeValidation, format, args...)
}

func NewNotFoundError(format string, args ...any) error {
	return newError(CodeNotFound, format, args...)
}

func NewConflictError(format string, args ...any) error {
	return newError(CodeConflict, format, args...)
}

func NewInternalError(format string, args ...any) error {
	return newError(CodeInternal, format, args...)
}
