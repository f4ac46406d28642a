package httperr

import "errors"

// Business error codes. These are expected, recoverable outcomes reported to
// the caller; only infrastructure failures propagate as plain errors.
const (
	CodeValidation        = "validation_error"
	CodeTooSoon           = "too_soon"
	CodeTooFarAhead       = "too_far_ahead"
	CodeStaffConflict     = "staff_conflict"
	CodeTimeBlocked       = "time_blocked"
	CodeSlotOverlap       = "slot_overlap"
	CodeNotFound          = "not_found"
	CodeIllegalTransition = "illegal_transition"
)

type BusinessError struct {
	Code    string
	Message string
	// Meta carries context explaining the conflict, e.g. the colliding
	// appointment's number or the blocking interval's title.
	Meta map[string]any
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func ErrBusinessMeta(code, message string, meta map[string]any) error {
	return BusinessError{Code: code, Message: message, Meta: meta}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
