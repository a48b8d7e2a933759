package pricing

// bundleSteps is indexed by the number of selected entries. Counts past the
// end of the table receive the last step.
var bundleSteps = []float64{0, 0, 1, 2.5, 4, 5.5, 7, 8.5, 10}

type subscriptionStep struct {
	Months  int
	Percent float64
}

// Months absent from this table get no discount.
var subscriptionSteps = []subscriptionStep{
	{Months: 3, Percent: 0},
	{Months: 6, Percent: 2},
	{Months: 9, Percent: 3.5},
	{Months: 12, Percent: 5},
	{Months: 15, Percent: 6.5},
	{Months: 18, Percent: 8},
	{Months: 21, Percent: 9},
	{Months: 24, Percent: 10},
}

// BundleDiscount returns the percent discount for a selection of count entries.
func BundleDiscount(count int) float64 {
	if count <= 0 {
		return 0
	}
	if count >= len(bundleSteps) {
		return bundleSteps[len(bundleSteps)-1]
	}
	return bundleSteps[count]
}

// SubscriptionDiscount returns the percent discount for a commitment of months.
func SubscriptionDiscount(months int) float64 {
	for _, step := range subscriptionSteps {
		if step.Months == months {
			return step.Percent
		}
	}
	return 0
}

// SubscriptionTerm is one selectable commitment length and its discount.
type SubscriptionTerm struct {
	Months          int     `json:"months"`
	DiscountPercent float64 `json:"discountPercent"`
}

// SubscriptionTerms lists the commitment lengths offered, shortest first.
func SubscriptionTerms() []SubscriptionTerm {
	terms := make([]SubscriptionTerm, 0, len(subscriptionSteps))
	for _, step := range subscriptionSteps {
		terms = append(terms, SubscriptionTerm{Months: step.Months, DiscountPercent: step.Percent})
	}
	return terms
}

// MaxBundleDiscount is the ceiling of the bundle table.
func MaxBundleDiscount() float64 {
	return bundleSteps[len(bundleSteps)-1]
}
