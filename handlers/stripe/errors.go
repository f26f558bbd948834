package stripe

import (
	"errors"
)

var (
	// ErrNotConfigured is returned when STRIPE_SECRET_KEY is absent. Paid
	// flows fail closed instead of calling Stripe with an empty key.
	ErrNotConfigured = errors.New("stripe is not configured")

	// ErrPersistence wraps a store rejection so webhook processing can
	// surface a 500 and let Stripe retry the delivery.
	ErrPersistence = errors.New("subscription persistence failed")
)
