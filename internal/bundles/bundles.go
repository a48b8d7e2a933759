package bundles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/labgrowth/internal/pricing"
)

var (
	// ErrUnknownBundle is returned for a bundle key outside the three tiers.
	ErrUnknownBundle = errors.New("unknown bundle")
	// ErrUnknownGoal is returned for a goal id with no mapping.
	ErrUnknownGoal = errors.New("unknown goal")
)

const (
	KeySurvivor   = "survivor"
	KeyCompetitor = "competitor"
	KeyDominator  = "dominator"
)

// Bundle is a pre-made selection offered on the landing page.
type Bundle struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Tagline     string              `json:"tagline"`
	Description string              `json:"description"`
	Items       []pricing.Selection `json:"items"`
}

// Goal is a pain point a visitor can pick to get a bundle recommendation.
type Goal struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description"`
	BundleKey   string `json:"bundleKey"`
}

// Priced pairs a bundle with its quote for a subscription length.
type Priced struct {
	Bundle Bundle             `json:"bundle"`
	Months int                `json:"months"`
	Quote  pricing.PriceQuote `json:"quote"`
}

// Recommendation is the bundle suggested for a goal, priced for a term.
type Recommendation struct {
	Goal Goal `json:"goal"`
	Priced
}

func dominatorItems() []pricing.Selection {
	services := pricing.Services()
	items := make([]pricing.Selection, 0, len(services))
	for _, svc := range services {
		items = append(items, pricing.Selection{Service: svc, Tier: pricing.TierPremium})
	}
	return items
}

func all() []Bundle {
	return []Bundle{
		{
			Key:         KeySurvivor,
			Name:        "The Survivor",
			Tagline:     "Perfect for: Labs just starting digital marketing",
			Description: "Perfect for labs just starting digital marketing",
			Items: []pricing.Selection{
				{Service: pricing.SEO, Tier: pricing.TierBase},
				{Service: pricing.GoogleAds, Tier: pricing.TierBase},
				{Service: pricing.SocialPosts, Tier: pricing.TierBase},
			},
		},
		{
			Key:         KeyCompetitor,
			Name:        "The Competitor",
			Tagline:     "Perfect for: Labs ready to take market share",
			Description: "Perfect for labs ready to take market share",
			Items: []pricing.Selection{
				{Service: pricing.SEO, Tier: pricing.TierStandard},
				{Service: pricing.GoogleAds, Tier: pricing.TierStandard},
				{Service: pricing.Content, Tier: pricing.TierStandard},
				{Service: pricing.Backlinks, Tier: pricing.TierBase},
			},
		},
		{
			Key:         KeyDominator,
			Name:        "The Dominator",
			Tagline:     "Perfect for: Labs committed to market leadership",
			Description: "Perfect for labs committed to market leadership",
			Items:       dominatorItems(),
		},
	}
}

var goals = []Goal{
	{ID: "price-shopping", Text: "Dentists are price shopping us to death", Description: "Offshore labs are offering 50% discounts", BundleKey: KeySurvivor},
	{ID: "no-technicians", Text: "Can't find qualified technicians", Description: "Average tech age is 51.5 years", BundleKey: KeyCompetitor},
	{ID: "dso-squeeze", Text: "DSOs are squeezing us out", Description: "They get 20% better reimbursements", BundleKey: KeyDominator},
	{ID: "no-visibility", Text: "Nobody knows we exist online", Description: "Missing from Google searches", BundleKey: KeyCompetitor},
	{ID: "no-differentiation", Text: "We look exactly like every other lab", Description: "Competing only on price", BundleKey: KeyDominator},
}

// All returns the pre-made bundles, smallest first. The slice is freshly
// built on each call.
func All() []Bundle {
	return all()
}

// Find returns the bundle with key.
func Find(key string) (Bundle, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, b := range all() {
		if b.Key == key {
			return b, nil
		}
	}
	return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownBundle, key)
}

// Goals returns the selectable goals in display order.
func Goals() []Goal {
	out := make([]Goal, len(goals))
	copy(out, goals)
	return out
}

// FindGoal matches a goal by id or by its exact text.
func FindGoal(goal string) (Goal, error) {
	goal = strings.TrimSpace(goal)
	for _, g := range goals {
		if g.ID == goal || g.Text == goal {
			return g, nil
		}
	}
	return Goal{}, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
}

// Price quotes b for a subscription of months through the generic engine.
func Price(b Bundle, months int) (Priced, error) {
	quote, err := pricing.Quote(b.Items, months)
	if err != nil {
		return Priced{}, fmt.Errorf("price bundle %s: %w", b.Key, err)
	}
	return Priced{Bundle: b, Months: months, Quote: quote}, nil
}

// PriceAll quotes every pre-made bundle for months.
func PriceAll(months int) ([]Priced, error) {
	bundles := all()
	priced := make([]Priced, 0, len(bundles))
	for _, b := range bundles {
		p, err := Price(b, months)
		if err != nil {
			return nil, err
		}
		priced = append(priced, p)
	}
	return priced, nil
}

// Recommend maps a goal onto its bundle and prices it for months.
func Recommend(goal string, months int) (Recommendation, error) {
	g, err := FindGoal(goal)
	if err != nil {
		return Recommendation{}, err
	}
	b, err := Find(g.BundleKey)
	if err != nil {
		return Recommendation{}, err
	}
	priced, err := Price(b, months)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation{Goal: g, Priced: priced}, nil
}
