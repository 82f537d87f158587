package checkout

import "errors"

var (
	ErrPaymentRequired   = errors.New("payment required")
	ErrSessionRedeemed   = errors.New("checkout session already used")
	ErrMissingSessionURL = errors.New("checkout session has no redirect url")
)
