package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/labgrowth/internal/bundles"
	"github.com/Simplici0/labgrowth/internal/pricing"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists leads and saved selections in SQLite.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// NewStore returns a store over an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now, newID: uuid.NewString}
}

func (s *Store) timestamp() (time.Time, string) {
	t := s.now().UTC()
	return t, t.Format(timeLayout)
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", raw, err)
	}
	return t, nil
}

// CreateLead normalizes and validates in, then inserts it with a fresh id.
func (s *Store) CreateLead(ctx context.Context, in LeadInput) (Lead, error) {
	in = normalizeLead(in)
	if err := Validate(in); err != nil {
		return Lead{}, err
	}

	createdAt, stamp := s.timestamp()
	lead := Lead{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		LabName:   in.LabName,
		Phone:     in.Phone,
		GoalID:    in.GoalID,
		Source:    in.Source,
		CreatedAt: createdAt,
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, name, email, lab_name, phone, goal_id, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.Name, lead.Email, lead.LabName, lead.Phone, lead.GoalID, lead.Source, stamp); err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// GetLead returns ErrNotFound when id is unknown.
func (s *Store) GetLead(ctx context.Context, id string) (Lead, error) {
	var lead Lead
	var stamp string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, lab_name, phone, goal_id, source, created_at
		FROM leads
		WHERE id = ?
	`, id).Scan(&lead.ID, &lead.Name, &lead.Email, &lead.LabName, &lead.Phone, &lead.GoalID, &lead.Source, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, fmt.Errorf("%w: lead %s", ErrNotFound, id)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("query lead: %w", err)
	}
	if lead.CreatedAt, err = parseTimestamp(stamp); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// ListLeads returns leads newest first, filtered by name, email or lab name when query is set.
func (s *Store) ListLeads(ctx context.Context, query string) ([]Lead, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, lab_name, phone, goal_id, source, created_at
		FROM leads
		WHERE (? = '' OR name LIKE ? OR email LIKE ? OR lab_name LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		var stamp string
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.LabName, &lead.Phone, &lead.GoalID, &lead.Source, &stamp); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		if lead.CreatedAt, err = parseTimestamp(stamp); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// CreateSelection re-prices the chosen items before saving them. A selection
// names either a bundle or custom items, never both; a bundle key resolves to
// that bundle's items.
func (s *Store) CreateSelection(ctx context.Context, in SelectionInput) (SavedSelection, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.BundleKey = strings.ToLower(strings.TrimSpace(in.BundleKey))
	if err := Validate(in); err != nil {
		return SavedSelection{}, err
	}

	items := in.Items
	if in.BundleKey != "" {
		if len(items) > 0 {
			return SavedSelection{}, &ValidationError{Fields: map[string]string{"items": "must be empty when bundleKey is set"}}
		}
		b, err := bundles.Find(in.BundleKey)
		if err != nil {
			return SavedSelection{}, err
		}
		items = b.Items
	}
	if len(items) == 0 {
		return SavedSelection{}, &ValidationError{Fields: map[string]string{"items": "is required"}}
	}

	quote, err := pricing.Quote(items, in.Months)
	if err != nil {
		return SavedSelection{}, fmt.Errorf("quote selection: %w", err)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return SavedSelection{}, fmt.Errorf("encode selection items: %w", err)
	}
	quoteJSON, err := json.Marshal(quote)
	if err != nil {
		return SavedSelection{}, fmt.Errorf("encode selection quote: %w", err)
	}

	createdAt, stamp := s.timestamp()
	saved := SavedSelection{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		BundleKey: in.BundleKey,
		Months:    in.Months,
		Items:     items,
		Quote:     quote,
		CreatedAt: createdAt,
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO bundle_selections (id, name, email, bundle_key, months, items_json, quote_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, saved.ID, saved.Name, saved.Email, saved.BundleKey, saved.Months, string(itemsJSON), string(quoteJSON), stamp); err != nil {
		return SavedSelection{}, fmt.Errorf("insert bundle selection: %w", err)
	}
	return saved, nil
}

// GetSelection returns ErrNotFound when id is unknown.
func (s *Store) GetSelection(ctx context.Context, id string) (SavedSelection, error) {
	var saved SavedSelection
	var itemsJSON, quoteJSON, stamp string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, bundle_key, months, items_json, quote_json, created_at
		FROM bundle_selections
		WHERE id = ?
	`, id).Scan(&saved.ID, &saved.Name, &saved.Email, &saved.BundleKey, &saved.Months, &itemsJSON, &quoteJSON, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedSelection{}, fmt.Errorf("%w: selection %s", ErrNotFound, id)
	}
	if err != nil {
		return SavedSelection{}, fmt.Errorf("query bundle selection: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &saved.Items); err != nil {
		return SavedSelection{}, fmt.Errorf("decode selection items: %w", err)
	}
	if err := json.Unmarshal([]byte(quoteJSON), &saved.Quote); err != nil {
		return SavedSelection{}, fmt.Errorf("decode selection quote: %w", err)
	}
	if saved.CreatedAt, err = parseTimestamp(stamp); err != nil {
		return SavedSelection{}, err
	}
	return saved, nil
}

// ListSelections returns saved selections newest first, filtered by name,
// email or bundle key when query is set.
func (s *Store) ListSelections(ctx context.Context, query string) ([]SelectionListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, name, email, bundle_key, months, quote_json
		FROM bundle_selections
		WHERE (? = '' OR name LIKE ? OR email LIKE ? OR bundle_key LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query bundle selections: %w", err)
	}
	defer rows.Close()

	items := make([]SelectionListItem, 0)
	for rows.Next() {
		var item SelectionListItem
		var stamp, quoteJSON string
		if err := rows.Scan(&item.ID, &stamp, &item.Name, &item.Email, &item.BundleKey, &item.Months, &quoteJSON); err != nil {
			return nil, fmt.Errorf("scan bundle selection: %w", err)
		}
		if item.CreatedAt, err = parseTimestamp(stamp); err != nil {
			return nil, err
		}
		item.FinalPrice = extractFinalPrice(quoteJSON)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundle selections: %w", err)
	}
	return items, nil
}

// extractFinalPrice reads the price from a stored snapshot, 0 when unreadable.
func extractFinalPrice(quoteJSON string) int {
	var quote pricing.PriceQuote
	if err := json.Unmarshal([]byte(quoteJSON), &quote); err != nil {
		return 0
	}
	return quote.FinalPrice
}
