package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Selection is one (service, tier) pair chosen by a visitor.
type Selection struct {
	Service Service `json:"service"`
	Tier    Tier    `json:"tier"`
}

// PriceQuote contains the computed monthly price for a selection and term.
type PriceQuote struct {
	BasePrice                   int     `json:"basePrice"`
	BundleDiscountPercent       float64 `json:"bundleDiscountPercent"`
	SubscriptionDiscountPercent float64 `json:"subscriptionDiscountPercent"`
	FinalPrice                  int     `json:"finalPrice"`
	SavedAmount                 int     `json:"savedAmount"`
}

// SavingsPercent is the whole-number share of the base price saved.
func (q PriceQuote) SavingsPercent() int {
	if q.BasePrice == 0 {
		return 0
	}
	return roundHalfUp(float64(q.SavedAmount) / float64(q.BasePrice) * 100)
}

// Quote prices selection for a subscription of months.
//
// Every entry counts towards the bundle size, duplicates included. The bundle
// discount is taken off the base price first and the subscription discount is
// taken off what remains, so the two compound rather than add. Rounding
// happens once on the final price; the saved amount is the difference between
// the base price and that rounded final price.
func Quote(selection []Selection, months int) (PriceQuote, error) {
	if months <= 0 {
		return PriceQuote{}, fmt.Errorf("%w: %d", ErrInvalidSubscriptionMonths, months)
	}

	basePrice := 0
	for _, item := range selection {
		price, err := PriceOf(item.Service, item.Tier)
		if err != nil {
			return PriceQuote{}, err
		}
		basePrice += price
	}

	base := float64(basePrice)
	bundlePercent := BundleDiscount(len(selection))
	afterBundle := base - base*(bundlePercent/100.0)

	subscriptionPercent := SubscriptionDiscount(months)
	final := afterBundle - afterBundle*(subscriptionPercent/100.0)

	finalPrice := roundHalfUp(final)
	savedAmount := roundHalfUp(float64(basePrice - finalPrice))

	return PriceQuote{
		BasePrice:                   basePrice,
		BundleDiscountPercent:       bundlePercent,
		SubscriptionDiscountPercent: subscriptionPercent,
		FinalPrice:                  finalPrice,
		SavedAmount:                 savedAmount,
	}, nil
}

// ParseMonths converts raw form or query input into a subscription length.
// Any positive integer is accepted; only the tabled terms earn a discount.
func ParseMonths(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidSubscriptionMonths, raw)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: %d must be greater than 0", ErrInvalidSubscriptionMonths, value)
	}
	return value, nil
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
