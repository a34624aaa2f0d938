package entities

import "errors"

// Sentinel errors returned by domain operations. Entry points match on these
// to render distinct user-facing messages.
var (
	ErrLotteryNotFound   = errors.New("lottery not found")
	ErrLotteryNotActive  = errors.New("lottery is not active")
	ErrAlreadyJoined     = errors.New("account already joined this lottery")
	ErrNotJoined         = errors.New("account has not joined this lottery")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCapacityExceeded  = errors.New("ticket count exceeds per-user limit")
	ErrDrawModeUnset     = errors.New("draw mode has not been selected")
	ErrInvalidState      = errors.New("operation not allowed in current state")
)
