package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation         = errors.New("missing or invalid fields")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("email already used")
	ErrNotFound           = errors.New("resource not found")
	// ErrForbidden is reported to clients exactly like ErrNotFound so a
	// non-owner cannot tell whether the resource exists.
	ErrForbidden       = errors.New("resource does not belong to the caller")
	ErrTooManyRequests = errors.New("too many attempts, try again later")
	ErrInternal        = errors.New("internal server error")
)

var errorMap = map[error]int{
	ErrValidation:         http.StatusBadRequest,
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrConflict:           http.StatusConflict,
	ErrNotFound:           http.StatusNotFound,
	ErrForbidden:          http.StatusNotFound,
	ErrTooManyRequests:    http.StatusTooManyRequests,
	ErrInternal:           http.StatusInternalServerError,
}

// displayText overrides the sentinel text in client responses.
var displayText = map[error]string{
	ErrUnauthorized:       "Unauthorized!",
	ErrInvalidCredentials: "Invalid Credentials",
	ErrInternal:           "Internal Server Error",
}

// kind returns the sentinel err wraps, or ErrInternal.
func kind(err error) error {
	for sentinel := range errorMap {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return ErrInternal
}

func GetErrorStatusCode(err error) int {
	return errorMap[kind(err)]
}

// PublicMessage is the text sent to clients. Only validation errors keep
// their wrapped detail; ownership failures read exactly like missing ones.
func PublicMessage(err error) string {
	switch k := kind(err); k {
	case ErrValidation:
		return err.Error()
	case ErrForbidden:
		return ErrNotFound.Error()
	default:
		if text, ok := displayText[k]; ok {
			return text
		}
		return k.Error()
	}
}

func IsInternal(err error) bool {
	return kind(err) == ErrInternal
}

// Validation wraps ErrValidation with a detail message.
func Validation(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}
