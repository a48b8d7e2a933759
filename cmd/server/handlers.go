package main

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/labgrowth/internal/bundles"
	"github.com/Simplici0/labgrowth/internal/leads"
	"github.com/Simplici0/labgrowth/internal/metrics"
	"github.com/Simplici0/labgrowth/internal/pricing"
	"github.com/Simplici0/labgrowth/internal/roi"
)

type catalogResponse struct {
	Services          []pricing.CatalogEntry     `json:"services"`
	Tiers             []pricing.Tier             `json:"tiers"`
	SubscriptionTerms []pricing.SubscriptionTerm `json:"subscriptionTerms"`
	MaxBundleDiscount float64                    `json:"maxBundleDiscount"`
	DefaultMonths     int                        `json:"defaultMonths"`
}

type discountResponse struct {
	Count   *int    `json:"count,omitempty"`
	Months  *int    `json:"months,omitempty"`
	Percent float64 `json:"percent"`
}

type quoteRequest struct {
	Items  []pricing.Selection `json:"items"`
	Months *int                `json:"months"`
}

type quoteResponse struct {
	pricing.PriceQuote
	Months         int `json:"months"`
	SavingsPercent int `json:"savingsPercent"`
}

type roiResponse struct {
	Projection        roi.Result               `json:"projection"`
	MonthlyInvestment float64                  `json:"monthlyInvestment"`
	Benchmarks        map[string]roi.Benchmark `json:"benchmarks"`
}

type linkResponse struct {
	URL string `json:"url"`
}

type leadResponse struct {
	Lead       leads.Lead `json:"lead"`
	BookingURL string     `json:"bookingUrl"`
}

// selectionRequest mirrors quoteRequest: months falls back to the default when absent.
type selectionRequest struct {
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	BundleKey string              `json:"bundleKey"`
	Items     []pricing.Selection `json:"items"`
	Months    *int                `json:"months"`
}

type selectionResponse struct {
	Selection   leads.SavedSelection `json:"selection"`
	CheckoutURL string               `json:"checkoutUrl,omitempty"`
}

func (s *server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

func (s *server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, map[string]string{"status": "ready"})
}

// monthsParam reads ?months=, falling back to the configured default when absent.
func (s *server) monthsParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("months"))
	if raw == "" {
		return s.cfg.DefaultMonths, nil
	}
	return pricing.ParseMonths(raw)
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, catalogResponse{
		Services:          pricing.Catalog(),
		Tiers:             pricing.Tiers(),
		SubscriptionTerms: pricing.SubscriptionTerms(),
		MaxBundleDiscount: pricing.MaxBundleDiscount(),
		DefaultMonths:     s.cfg.DefaultMonths,
	})
}

func (s *server) handleSubscriptionTerms(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, pricing.SubscriptionTerms())
}

func (s *server) handleBundleDiscount(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil {
		writeError(r.Context(), s.log, w, validationError("count must be an integer", err))
		return
	}
	writeSuccess(w, discountResponse{Count: &count, Percent: pricing.BundleDiscount(count)})
}

func (s *server) handleSubscriptionDiscount(w http.ResponseWriter, r *http.Request) {
	months, err := strconv.Atoi(chi.URLParam(r, "months"))
	if err != nil {
		writeError(r.Context(), s.log, w, validationError("months must be an integer", err))
		return
	}
	writeSuccess(w, discountResponse{Months: &months, Percent: pricing.SubscriptionDiscount(months)})
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.metrics.ObserveQuote(metrics.OutcomeInvalid, 0, 0)
		writeError(r.Context(), s.log, w, err)
		return
	}

	months := s.cfg.DefaultMonths
	if req.Months != nil {
		months = *req.Months
	}

	quote, err := s.quote(req.Items, months)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, quoteResponse{PriceQuote: quote, Months: months, SavingsPercent: quote.SavingsPercent()})
}

// quote prices items and records the outcome.
func (s *server) quote(items []pricing.Selection, months int) (pricing.PriceQuote, error) {
	quote, err := pricing.Quote(items, months)
	switch {
	case err == nil:
		s.metrics.ObserveQuote(metrics.OutcomeOK, len(items), quote.FinalPrice)
	case pricing.IsValidationError(err):
		s.metrics.ObserveQuote(metrics.OutcomeInvalid, len(items), 0)
	default:
		s.metrics.ObserveQuote(metrics.OutcomeError, len(items), 0)
	}
	return quote, err
}

func (s *server) handleBundles(w http.ResponseWriter, r *http.Request) {
	months, err := s.monthsParam(r)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	priced, err := bundles.PriceAll(months)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, priced)
}

func (s *server) handleBundle(w http.ResponseWriter, r *http.Request) {
	b, err := bundles.Find(chi.URLParam(r, "key"))
	if err != nil {
		writeError(r.Context(), s.log, w, notFound("bundle not found", err))
		return
	}
	months, err := s.monthsParam(r)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	priced, err := bundles.Price(b, months)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, priced)
}

func (s *server) handleGoals(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, bundles.Goals())
}

func (s *server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	goal := strings.TrimSpace(r.URL.Query().Get("goal"))
	if goal == "" {
		writeError(r.Context(), s.log, w, validationError("goal is required", nil))
		return
	}
	months, err := s.monthsParam(r)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	rec, err := bundles.Recommend(goal, months)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, rec)
}

func (s *server) handleROI(w http.ResponseWriter, r *http.Request) {
	var in roi.Input
	if err := decodeJSONBody(r, &in); err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	result, err := roi.Calculate(in)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, roiResponse{
		Projection:        result,
		MonthlyInvestment: roi.MonthlyInvestment.InexactFloat64(),
		Benchmarks:        roi.Benchmarks(),
	})
}

func (s *server) handleBookingLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeSuccess(w, linkResponse{URL: s.links.Booking(q.Get("name"), q.Get("email"))})
}

func (s *server) handleCheckoutLink(w http.ResponseWriter, r *http.Request) {
	months, err := s.monthsParam(r)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	link, err := s.links.Checkout(r.URL.Query().Get("bundle"), months)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, linkResponse{URL: link})
}

func (s *server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in leads.LeadInput
	if err := decodeJSONBody(r, &in); err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	lead, err := s.leads.CreateLead(r.Context(), in)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	s.metrics.IncLead("lead")
	s.log.Info(s.log.WithField(r.Context(), "lead_id", lead.ID), "lead.captured")

	writeSuccessStatus(w, http.StatusCreated, leadResponse{
		Lead:       lead,
		BookingURL: s.links.Booking(lead.Name, lead.Email),
	})
}

func (s *server) handleCreateSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}

	in := leads.SelectionInput{
		Name:      req.Name,
		Email:     req.Email,
		BundleKey: req.BundleKey,
		Items:     req.Items,
		Months:    s.cfg.DefaultMonths,
	}
	if req.Months != nil {
		in.Months = *req.Months
	}

	saved, err := s.leads.CreateSelection(r.Context(), in)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	s.metrics.IncLead("selection")
	s.metrics.ObserveQuote(metrics.OutcomeOK, len(saved.Items), saved.Quote.FinalPrice)
	s.log.Info(s.log.WithFields(r.Context(), map[string]any{
		"selection_id": saved.ID,
		"final_price":  saved.Quote.FinalPrice,
	}), "selection.saved")

	resp := selectionResponse{Selection: saved}
	if saved.BundleKey != "" {
		link, err := s.links.Checkout(saved.BundleKey, saved.Months)
		if err != nil {
			writeError(r.Context(), s.log, w, err)
			return
		}
		resp.CheckoutURL = link
	}
	writeSuccessStatus(w, http.StatusCreated, resp)
}

func (s *server) handleAdminLeads(w http.ResponseWriter, r *http.Request) {
	list, err := s.leads.ListLeads(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, list)
}

func (s *server) handleAdminLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.leads.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, lead)
}

func (s *server) handleAdminSelections(w http.ResponseWriter, r *http.Request) {
	list, err := s.leads.ListSelections(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, list)
}

func (s *server) handleAdminSelection(w http.ResponseWriter, r *http.Request) {
	saved, err := s.leads.GetSelection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, saved)
}

func (s *server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadList, err := s.leads.ListLeads(ctx, "")
	if err != nil {
		writeError(ctx, s.log, w, err)
		return
	}
	selections, err := s.leads.ListSelections(ctx, "")
	if err != nil {
		writeError(ctx, s.log, w, err)
		return
	}

	var buf bytes.Buffer
	if err := leads.WriteWorkbook(&buf, leadList, selections); err != nil {
		writeError(ctx, s.log, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+leads.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
