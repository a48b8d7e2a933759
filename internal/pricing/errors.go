package pricing

import "errors"

// Validation errors returned by the pricing functions.
var (
	ErrUnknownService            = errors.New("unknown service")
	ErrUnknownTier               = errors.New("unknown tier")
	ErrInvalidSubscriptionMonths = errors.New("invalid subscription months")
)

// IsValidationError reports whether err came from bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownService) ||
		errors.Is(err, ErrUnknownTier) ||
		errors.Is(err, ErrInvalidSubscriptionMonths)
}
