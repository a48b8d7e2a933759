package leads

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Simplici0/labgrowth/internal/pricing"
)

var (
	// ErrNotFound is returned when a lead or selection id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidLead wraps every input validation failure.
	ErrInvalidLead = errors.New("invalid lead")
)

// Lead is a contact captured from the landing page.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	LabName   string    `json:"labName"`
	Phone     string    `json:"phone"`
	GoalID    string    `json:"goalId"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadInput is the contact form payload.
type LeadInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	LabName string `json:"labName" validate:"omitempty,max=160"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	GoalID  string `json:"goalId" validate:"omitempty,max=64"`
	Source  string `json:"source" validate:"omitempty,max=64"`
}

// SavedSelection is a bundle the visitor chose, with the server-side quote at save time.
type SavedSelection struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	BundleKey string              `json:"bundleKey,omitempty"`
	Months    int                 `json:"months"`
	Items     []pricing.Selection `json:"items"`
	Quote     pricing.PriceQuote  `json:"quote"`
	CreatedAt time.Time           `json:"createdAt"`
}

// SelectionInput carries either explicit items or a named bundle key.
type SelectionInput struct {
	Name      string              `json:"name" validate:"omitempty,max=120"`
	Email     string              `json:"email" validate:"omitempty,email,max=254"`
	BundleKey string              `json:"bundleKey" validate:"omitempty,max=32"`
	Items     []pricing.Selection `json:"items" validate:"omitempty,max=32"`
	Months    int                 `json:"months" validate:"gt=0"`
}

// SelectionListItem is the admin listing row.
type SelectionListItem struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	BundleKey  string    `json:"bundleKey,omitempty"`
	Months     int       `json:"months"`
	FinalPrice int       `json:"finalPrice"`
}

// ValidationError lists offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidLead, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidLead }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate checks struct tags and reports failures as a *ValidationError.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", ErrInvalidLead, err)
	}
	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return &ValidationError{Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}

func normalizeLead(in LeadInput) LeadInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.LabName = strings.TrimSpace(in.LabName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.GoalID = strings.TrimSpace(in.GoalID)
	in.Source = strings.TrimSpace(in.Source)
	return in
}
