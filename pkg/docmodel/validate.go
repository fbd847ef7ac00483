package docmodel

import (
	"fmt"
	"math"
	"time"
)

const (
	// LineTotalEpsilon is the currency-rounding tolerance for a stored
	// line total against its derived value.
	LineTotalEpsilon = 0.005

	// TotalsEpsilon is the tolerance for the document-level totals.
	TotalsEpsilon = 0.01
)

// ValidationError names the offending field so callers can surface it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a Document against the rendering engine's invariants.
// It recomputes all derived totals from the line items; a mismatch between
// stored and derived values is reported, never corrected.
func Validate(d *Document) error {
	switch d.Kind {
	case KindInvoice, KindQuote:
	case "":
		return invalid("kind", "is required")
	default:
		return invalid("kind", "unknown kind %q (must be invoice or quote)", d.Kind)
	}

	if d.Number == "" {
		return invalid("number", "is required")
	}
	if d.Currency != "CHF" {
		return invalid("currency", "unsupported currency %q (only CHF)", d.Currency)
	}

	if err := validateDate("issue_date", d.IssueDate, true); err != nil {
		return err
	}
	if err := validateDate("deadline_date", d.DeadlineDate, true); err != nil {
		return err
	}

	if err := validateParty("issuer", &d.Issuer); err != nil {
		return err
	}
	if err := validateParty("recipient", &d.Recipient); err != nil {
		return err
	}

	if len(d.LineItems) == 0 {
		return invalid("line_items", "at least one line item is required")
	}

	var subtotal, taxTotal float64
	for i, li := range d.LineItems {
		field := fmt.Sprintf("line_items[%d]", i)
		if li.Description == "" {
			return invalid(field+".description", "is required")
		}
		if li.Quantity <= 0 {
			return invalid(field+".quantity", "must be > 0, got %g", li.Quantity)
		}
		if li.UnitPrice <= 0 {
			return invalid(field+".unit_price", "must be > 0, got %g", li.UnitPrice)
		}
		if li.TaxRatePercent < 0 {
			return invalid(field+".tax_rate_percent", "must be >= 0, got %g", li.TaxRatePercent)
		}
		if diff := math.Abs(li.LineTotal - li.DerivedLineTotal()); diff > LineTotalEpsilon {
			return invalid(field+".line_total",
				"stored %.2f does not match derived %.2f", li.LineTotal, li.DerivedLineTotal())
		}
		subtotal += li.NetAmount()
		taxTotal += li.TaxAmount()
	}

	if diff := math.Abs(d.Subtotal - subtotal); diff > TotalsEpsilon {
		return invalid("subtotal", "stored %.2f does not match derived %.2f", d.Subtotal, subtotal)
	}
	if diff := math.Abs(d.TaxTotal - taxTotal); diff > TotalsEpsilon {
		return invalid("tax_total", "stored %.2f does not match derived %.2f", d.TaxTotal, taxTotal)
	}
	if diff := math.Abs(d.GrandTotal - (subtotal + taxTotal)); diff > TotalsEpsilon {
		return invalid("grand_total", "stored %.2f does not match derived %.2f", d.GrandTotal, subtotal+taxTotal)
	}

	return nil
}

func validateDate(field, value string, required bool) error {
	if value == "" {
		if required {
			return invalid(field, "is required")
		}
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return invalid(field, "invalid date %q (expected YYYY-MM-DD)", value)
	}
	return nil
}

func validateParty(prefix string, p *Party) error {
	if p.DisplayName == "" {
		return invalid(prefix+".display_name", "is required")
	}
	if !isAlpha2(p.CountryCode) {
		return invalid(prefix+".country_code",
			"invalid country code %q (expected ISO-3166 alpha-2)", p.CountryCode)
	}
	return nil
}

func isAlpha2(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
