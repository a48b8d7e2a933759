package bundles

import (
	"errors"
	"testing"

	"github.com/Simplici0/labgrowth/internal/pricing"
)

func TestPriceAll_MatchesGenericQuote(t *testing.T) {
	priced, err := PriceAll(12)
	if err != nil {
		t.Fatalf("PriceAll: %v", err)
	}
	if len(priced) != 3 {
		t.Fatalf("expected 3 bundles, got %d", len(priced))
	}

	wantBase := map[string]int{KeySurvivor: 1875, KeyCompetitor: 2820, KeyDominator: 9000}
	for _, p := range priced {
		if p.Quote.BasePrice != wantBase[p.Bundle.Key] {
			t.Fatalf("%s basePrice = %d, want %d", p.Bundle.Key, p.Quote.BasePrice, wantBase[p.Bundle.Key])
		}
		direct, err := pricing.Quote(p.Bundle.Items, 12)
		if err != nil {
			t.Fatalf("Quote: %v", err)
		}
		if direct != p.Quote {
			t.Fatalf("%s priced %+v, generic engine gives %+v", p.Bundle.Key, p.Quote, direct)
		}
	}
}

func TestPrice_SurvivorOverYear(t *testing.T) {
	b, err := Find("Survivor")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	p, err := Price(b, 12)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if p.Quote.FinalPrice != 1737 || p.Quote.SavedAmount != 138 {
		t.Fatalf("unexpected survivor quote: %+v", p.Quote)
	}
}

func TestPrice_PropagatesMonthValidation(t *testing.T) {
	b, _ := Find(KeyCompetitor)
	if _, err := Price(b, 0); !errors.Is(err, pricing.ErrInvalidSubscriptionMonths) {
		t.Fatalf("expected invalid months error, got %v", err)
	}
}

func TestDominatorHasEveryServiceAtPremium(t *testing.T) {
	b, err := Find(KeyDominator)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(b.Items) != len(pricing.Services()) {
		t.Fatalf("expected %d items, got %d", len(pricing.Services()), len(b.Items))
	}
	for _, item := range b.Items {
		if item.Tier != pricing.TierPremium {
			t.Fatalf("expected premium tier, got %+v", item)
		}
	}
}

func TestFind_UnknownBundle(t *testing.T) {
	if _, err := Find("enterprise"); !errors.Is(err, ErrUnknownBundle) {
		t.Fatalf("expected ErrUnknownBundle, got %v", err)
	}
}

func TestAll_ReturnsFreshSlices(t *testing.T) {
	first := All()
	first[0].Items[0].Tier = pricing.TierPremium

	again, _ := Find(KeySurvivor)
	if again.Items[0].Tier != pricing.TierBase {
		t.Fatalf("bundle definition mutated through returned slice")
	}
}

func TestRecommend_ByIDAndText(t *testing.T) {
	cases := map[string]string{
		"price-shopping":                       KeySurvivor,
		"Can't find qualified technicians":     KeyCompetitor,
		"dso-squeeze":                          KeyDominator,
		"Nobody knows we exist online":         KeyCompetitor,
		"We look exactly like every other lab": KeyDominator,
	}

	for goal, wantKey := range cases {
		rec, err := Recommend(goal, 24)
		if err != nil {
			t.Fatalf("Recommend(%q): %v", goal, err)
		}
		if rec.Bundle.Key != wantKey {
			t.Fatalf("Recommend(%q) = %s, want %s", goal, rec.Bundle.Key, wantKey)
		}
		if rec.Months != 24 || rec.Quote.SubscriptionDiscountPercent != 10 {
			t.Fatalf("unexpected pricing for %q: %+v", goal, rec.Priced)
		}
	}
}

func TestRecommend_UnknownGoal(t *testing.T) {
	if _, err := Recommend("we have too many clients", 12); !errors.Is(err, ErrUnknownGoal) {
		t.Fatalf("expected ErrUnknownGoal, got %v", err)
	}
}

func TestGoals_MapToKnownBundles(t *testing.T) {
	list := Goals()
	if len(list) != 5 {
		t.Fatalf("expected 5 goals, got %d", len(list))
	}
	for _, g := range list {
		if _, err := Find(g.BundleKey); err != nil {
			t.Fatalf("goal %s points at unknown bundle: %v", g.ID, err)
		}
	}
}
