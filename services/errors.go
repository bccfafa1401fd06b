// services/errors.go - Sentinel errors shared by the service layer
package services

import "errors"

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrDailyLimitReached   = errors.New("daily ticket limit reached")
	ErrCooldownActive      = errors.New("ad cooldown still active")
	ErrDrawNotActive       = errors.New("no active draw for this prize")
	ErrAlreadyClaimed      = errors.New("daily reward already claimed")
	ErrNothingToRecover    = errors.New("no broken streak to recover")
	ErrUserNotFound        = errors.New("user not found")
	ErrPrizeNotFound       = errors.New("prize not found")
)
