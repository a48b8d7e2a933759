package handoff

import (
	"errors"
	"testing"

	"github.com/Simplici0/labgrowth/internal/bundles"
	"github.com/Simplici0/labgrowth/internal/pricing"
)

func TestCheckout_RelativeURL(t *testing.T) {
	links, err := New("/checkout", "https://calendly.com/lab/discovery-call")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := links.Checkout("Competitor", 18)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if got != "/checkout?bundle=competitor&months=18" {
		t.Fatalf("Checkout = %q", got)
	}
}

func TestCheckout_KeepsExistingQuery(t *testing.T) {
	links, err := New("https://shop.example.com/buy?ref=landing", "https://calendly.com/lab/call")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := links.Checkout(bundles.KeyDominator, 24)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if got != "https://shop.example.com/buy?bundle=dominator&months=24&ref=landing" {
		t.Fatalf("Checkout = %q", got)
	}
}

func TestCheckout_RejectsBadInput(t *testing.T) {
	links, _ := New("/checkout", "https://calendly.com/lab/call")

	if _, err := links.Checkout("platinum", 12); !errors.Is(err, bundles.ErrUnknownBundle) {
		t.Fatalf("expected ErrUnknownBundle, got %v", err)
	}
	if _, err := links.Checkout(bundles.KeySurvivor, 0); !errors.Is(err, pricing.ErrInvalidSubscriptionMonths) {
		t.Fatalf("expected ErrInvalidSubscriptionMonths, got %v", err)
	}
}

func TestBooking_Prefill(t *testing.T) {
	links, _ := New("/checkout", "https://calendly.com/lab/discovery-call")

	if got := links.Booking("", ""); got != "https://calendly.com/lab/discovery-call" {
		t.Fatalf("Booking() = %q", got)
	}
	got := links.Booking(" Ana Ruiz ", "ana@lab.example")
	if got != "https://calendly.com/lab/discovery-call?email=ana%40lab.example&name=Ana+Ruiz" {
		t.Fatalf("Booking(prefill) = %q", got)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("http://[::1", "https://calendly.com"); err == nil {
		t.Fatalf("expected parse error")
	}
}
