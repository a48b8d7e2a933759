package pricing

import "fmt"

// Service names one of the marketing services sold to dental labs.
type Service string

const (
	MetaAds     Service = "Meta Ads"
	GoogleAds   Service = "Google Ads"
	TikTokAds   Service = "TikTok Ads"
	SEO         Service = "SEO"
	GBPRanker   Service = "GBP Ranker"
	Backlinks   Service = "Backlinks"
	Content     Service = "Content"
	SocialPosts Service = "Social Posts"
)

// Tier is a service quality/price level.
type Tier string

const (
	TierBase     Tier = "Base"
	TierStandard Tier = "Standard"
	TierPremium  Tier = "Premium"
)

// TierPrices holds the monthly price of a service at each tier.
type TierPrices struct {
	Base     int `json:"Base"`
	Standard int `json:"Standard"`
	Premium  int `json:"Premium"`
}

// Price returns the price for tier, reporting false for an unknown tier.
func (p TierPrices) Price(tier Tier) (int, bool) {
	switch tier {
	case TierBase:
		return p.Base, true
	case TierStandard:
		return p.Standard, true
	case TierPremium:
		return p.Premium, true
	}
	return 0, false
}

// CatalogEntry pairs a service with its tier prices.
type CatalogEntry struct {
	Service Service    `json:"service"`
	Prices  TierPrices `json:"prices"`
}

var serviceOrder = []Service{MetaAds, GoogleAds, TikTokAds, SEO, GBPRanker, Backlinks, Content, SocialPosts}

var catalog = map[Service]TierPrices{
	MetaAds:     {Base: 770, Standard: 980, Premium: 1410},
	GoogleAds:   {Base: 770, Standard: 980, Premium: 1410},
	TikTokAds:   {Base: 770, Standard: 980, Premium: 1410},
	SEO:         {Base: 790, Standard: 1000, Premium: 1450},
	GBPRanker:   {Base: 315, Standard: 420, Premium: 675},
	Backlinks:   {Base: 420, Standard: 630, Premium: 990},
	Content:     {Base: 210, Standard: 420, Premium: 760},
	SocialPosts: {Base: 315, Standard: 525, Premium: 895},
}

// Services returns every catalog service in display order.
func Services() []Service {
	out := make([]Service, len(serviceOrder))
	copy(out, serviceOrder)
	return out
}

// Tiers returns the tiers from cheapest to most expensive.
func Tiers() []Tier {
	return []Tier{TierBase, TierStandard, TierPremium}
}

// Catalog returns a copy of the price table in display order.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(serviceOrder))
	for _, svc := range serviceOrder {
		entries = append(entries, CatalogEntry{Service: svc, Prices: catalog[svc]})
	}
	return entries
}

// PricesFor returns the tier prices of a single service.
func PricesFor(service Service) (TierPrices, error) {
	prices, ok := catalog[service]
	if !ok {
		return TierPrices{}, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	return prices, nil
}

// PriceOf looks up the monthly price of service at tier.
func PriceOf(service Service, tier Tier) (int, error) {
	prices, err := PricesFor(service)
	if err != nil {
		return 0, err
	}
	price, ok := prices.Price(tier)
	if !ok {
		return 0, fmt.Errorf("%w: %q for service %q", ErrUnknownTier, tier, service)
	}
	return price, nil
}
