package storage

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrTerminalState      = errors.New("order is already delivered or cancelled")
	ErrOrderNotAvailable  = errors.New("order is no longer available")
	ErrAlreadyClaimed     = errors.New("order already claimed by another partner")
	ErrPartnerNotEligible = errors.New("delivery partner is not approved or not available")
	ErrNotAssignedPartner = errors.New("delivery is not assigned to this partner")
	ErrDeliveryNotActive  = errors.New("delivery is not active")
	ErrPartnerExists      = errors.New("delivery partner profile already exists")
	ErrPartnerBusy        = errors.New("delivery partner has an active delivery")
)
