package engine

import "errors"

// ErrValidation matches every user-input error below via errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	ErrNoCategory       = validationError("no category selected")
	ErrEmptyCustomLabel = validationError("custom category label is empty")
	ErrInvalidDuration  = validationError("duration must be at least one minute")
	ErrInvalidRange     = validationError("end time must differ from start time")
	ErrInvalidClock     = validationError("time must be HH:MM")
	ErrNothingPending   = validationError("no pending time block")
	ErrWrongMode        = validationError("action not available in this mode")
)

type valErr struct{ msg string }

func validationError(msg string) error { return &valErr{msg: msg} }

func (e *valErr) Error() string        { return e.msg }
func (e *valErr) Is(target error) bool { return target == ErrValidation }
