package leave

import "errors"

var (
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrInsufficientBalance = errors.New("exceeds available vacation days")
	ErrNotPending          = errors.New("only pending requests can be withdrawn")
	ErrNotRequestOwner     = errors.New("you can only withdraw your own requests")
)
