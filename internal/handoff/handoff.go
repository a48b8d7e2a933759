// Package handoff builds the links that pass a visitor on to the external
// checkout page and the call-booking widget.
package handoff

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/labgrowth/internal/bundles"
	"github.com/Simplici0/labgrowth/internal/pricing"
)

// Links holds the configured external destinations.
type Links struct {
	checkout *url.URL
	booking  *url.URL
}

// New parses the checkout and booking base URLs. Relative checkout URLs are
// allowed so the landing page can keep checkout on its own origin.
func New(checkoutURL, bookingURL string) (*Links, error) {
	checkout, err := url.Parse(strings.TrimSpace(checkoutURL))
	if err != nil {
		return nil, fmt.Errorf("parse checkout url: %w", err)
	}
	booking, err := url.Parse(strings.TrimSpace(bookingURL))
	if err != nil {
		return nil, fmt.Errorf("parse booking url: %w", err)
	}
	return &Links{checkout: checkout, booking: booking}, nil
}

// Checkout returns the checkout URL for a pre-made bundle and term.
func (l *Links) Checkout(bundleKey string, months int) (string, error) {
	b, err := bundles.Find(bundleKey)
	if err != nil {
		return "", err
	}
	if months <= 0 {
		return "", fmt.Errorf("%w: %d", pricing.ErrInvalidSubscriptionMonths, months)
	}

	u := *l.checkout
	q := u.Query()
	q.Set("bundle", b.Key)
	q.Set("months", strconv.Itoa(months))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Booking returns the call-booking link, prefilled with name and email when
// they are known.
func (l *Links) Booking(name, email string) string {
	u := *l.booking
	q := u.Query()
	if name = strings.TrimSpace(name); name != "" {
		q.Set("name", name)
	}
	if email = strings.TrimSpace(email); email != "" {
		q.Set("email", email)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
