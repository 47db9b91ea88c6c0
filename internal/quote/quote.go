// Package quote defines the fully-resolved input bundle handed to the
// rendering engine: the quote document, its line items, pricing
// options, company branding and optional signature/template data.
// The engine treats these values as immutable.
package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects how a discount or down payment value is interpreted.
type Kind string

const (
	Percentage Kind = "PERCENTAGE"
	Fixed      Kind = "FIXED"
)

// validityDays is how long a quote stays valid after creation.
const validityDays = 30

// Contact is the "quote to" block. Every field is optional; empty
// fields are omitted from the layout, not rendered as blank lines.
type Contact struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Lines returns the non-empty contact fields in display order.
func (c Contact) Lines() []string {
	var lines []string
	for _, s := range []string{c.Name, c.Email, c.Phone, c.Address} {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// Company carries the branding shown in the document header.
type Company struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"` // asset store reference
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// ContactLines returns the non-empty company contact fields.
func (c Company) ContactLines() []string {
	var lines []string
	for _, s := range []string{c.Phone, c.Email, c.Website} {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// LineItem is one priced row of the quote table.
type LineItem struct {
	Name        string          `json:"name"`
	Variation   string          `json:"variation,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Total is quantity x unit price at full precision.
func (li LineItem) Total() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Discount applies to the subtotal before tax.
type Discount struct {
	Kind  Kind            `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Tax is a percentage rate applied to the post-discount subtotal.
type Tax struct {
	Rate decimal.Decimal `json:"rate"`
}

// DownPayment splits the total into an up-front amount and a balance.
type DownPayment struct {
	Kind  Kind            `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Signature is a captured client acceptance. Data is base64, with or
// without a data-URI prefix.
type Signature struct {
	Data       string    `json:"data"`
	SignerName string    `json:"signer_name,omitempty"`
	SignedAt   time.Time `json:"signed_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
}

// Template carries the terms-and-conditions text, rendered on its own
// page when non-empty.
type Template struct {
	Name  string `json:"name,omitempty"`
	Terms string `json:"terms"`
}

// HasTerms reports whether the template contributes a terms page.
func (t *Template) HasTerms() bool {
	return t != nil && strings.TrimSpace(t.Terms) != ""
}

// Document is the immutable input for a single render call.
type Document struct {
	Number      string       `json:"number"`
	CreatedAt   time.Time    `json:"created_at"`
	Client      Contact      `json:"client"`
	Items       []LineItem   `json:"items"`
	Discount    *Discount    `json:"discount,omitempty"`
	Tax         *Tax         `json:"tax,omitempty"`
	DownPayment *DownPayment `json:"down_payment,omitempty"`
	Signature   *Signature   `json:"signature,omitempty"`
	Template    *Template    `json:"template,omitempty"`
	Company     Company      `json:"company"`
}

// ValidUntil is the quote expiry date: creation plus 30 days.
func (d *Document) ValidUntil() time.Time {
	return d.CreatedAt.AddDate(0, 0, validityDays)
}

// ValidationError reports input that must be fixed by the caller
// before a render can start. It is returned before any drawing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid quote: %s: %s", e.Field, e.Reason)
}

// Validate checks arithmetic preconditions. It never inspects assets
// or layout concerns; those degrade gracefully at render time.
func (d *Document) Validate() error {
	for i, item := range d.Items {
		if item.Quantity.IsNegative() {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", i),
				Reason: "must not be negative",
			}
		}
		if item.UnitPrice.IsNegative() {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].unit_price", i),
				Reason: "must not be negative",
			}
		}
	}
	if d.Discount != nil {
		if err := validateKind("discount", d.Discount.Kind, d.Discount.Value); err != nil {
			return err
		}
	}
	if d.Tax != nil && d.Tax.Rate.IsNegative() {
		return &ValidationError{Field: "tax.rate", Reason: "must not be negative"}
	}
	if d.DownPayment != nil {
		if err := validateKind("down_payment", d.DownPayment.Kind, d.DownPayment.Value); err != nil {
			return err
		}
	}
	return nil
}

func validateKind(field string, kind Kind, value decimal.Decimal) error {
	switch kind {
	case Percentage, Fixed:
	default:
		return &ValidationError{
			Field:  field + ".kind",
			Reason: fmt.Sprintf("unknown kind %q", kind),
		}
	}
	if value.IsNegative() {
		return &ValidationError{Field: field + ".value", Reason: "must not be negative"}
	}
	return nil
}
