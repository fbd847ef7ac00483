// Package docmodel defines the normalized financial document model
package docmodel

// Kind identifies the commercial document archetype
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindQuote   Kind = "quote"
)

// Document represents a normalized invoice or quote ready for rendering.
// Totals are derived values: they are recomputed from the line items at
// render time and a mismatch is a data-quality error, never silently fixed.
type Document struct {
	Kind         Kind       `json:"kind"`
	Number       string     `json:"number"`
	IssueDate    string     `json:"issue_date"`    // ISO date, 2006-01-02
	DeadlineDate string     `json:"deadline_date"` // due date (invoice) or validity date (quote)
	Status       string     `json:"status,omitempty"`
	Currency     string     `json:"currency"`
	LineItems    []LineItem `json:"line_items"`
	Subtotal     float64    `json:"subtotal"`
	TaxTotal     float64    `json:"tax_total"`
	GrandTotal   float64    `json:"grand_total"`
	Notes        string     `json:"notes,omitempty"`
	Issuer       Party      `json:"issuer"`
	Recipient    Party      `json:"recipient"`
}

// Party is the name/address group for the issuer or the recipient.
// CountryCode must already be an ISO-3166 alpha-2 code; free-text country
// names are normalized upstream and rejected here.
type Party struct {
	DisplayName   string `json:"display_name"`
	StreetAddress string `json:"street_address,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	City          string `json:"city,omitempty"`
	CountryCode   string `json:"country_code"`
	AccountIBAN   string `json:"account_iban,omitempty"` // issuer only
	VATNumber     string `json:"vat_number,omitempty"`
}

// LineItem is a single billable row
type LineItem struct {
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	LineTotal      float64 `json:"line_total"`
}

// DerivedLineTotal returns quantity*unitPrice*(1+taxRate/100), the value
// the stored LineTotal must agree with within LineTotalEpsilon.
func (li LineItem) DerivedLineTotal() float64 {
	return li.Quantity * li.UnitPrice * (1 + li.TaxRatePercent/100)
}

// NetAmount returns quantity*unitPrice, before tax
func (li LineItem) NetAmount() float64 {
	return li.Quantity * li.UnitPrice
}

// TaxAmount returns the tax portion of the line
func (li LineItem) TaxAmount() float64 {
	return li.Quantity * li.UnitPrice * li.TaxRatePercent / 100
}
