package docmodel

import (
	"strings"
	"testing"
)

func validDocument() *Document {
	li := LineItem{
		Description:    "Consulting day",
		Quantity:       1,
		UnitPrice:      100.00,
		TaxRatePercent: 8.1,
		LineTotal:      108.10,
	}

	return &Document{
		Kind:         KindInvoice,
		Number:       "2026-0042",
		IssueDate:    "2026-08-01",
		DeadlineDate: "2026-08-31",
		Currency:     "CHF",
		LineItems:    []LineItem{li},
		Subtotal:     100.00,
		TaxTotal:     8.10,
		GrandTotal:   108.10,
		Issuer: Party{
			DisplayName: "Muster Treuhand AG",
			CountryCode: "CH",
			AccountIBAN: "CH4431999123000889012",
		},
		Recipient: Party{
			DisplayName: "Jean Dupont",
			CountryCode: "CH",
		},
	}
}

func TestValidate_ValidDocument(t *testing.T) {
	if err := Validate(validDocument()); err != nil {
		t.Errorf("Expected valid document, got error: %v", err)
	}
}

func TestValidate_MissingKind(t *testing.T) {
	doc := validDocument()
	doc.Kind = ""

	if err := Validate(doc); err == nil {
		t.Error("Expected error for missing kind")
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	doc := validDocument()
	doc.Kind = "receipt"

	if err := Validate(doc); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestValidate_BothKindsAccepted(t *testing.T) {
	for _, kind := range []Kind{KindInvoice, KindQuote} {
		doc := validDocument()
		doc.Kind = kind
		if err := Validate(doc); err != nil {
			t.Errorf("Expected kind %s to validate, got: %v", kind, err)
		}
	}
}

func TestValidate_MissingNumber(t *testing.T) {
	doc := validDocument()
	doc.Number = ""

	if err := Validate(doc); err == nil {
		t.Error("Expected error for missing number")
	}
}

func TestValidate_UnsupportedCurrency(t *testing.T) {
	doc := validDocument()
	doc.Currency = "USD"

	if err := Validate(doc); err == nil {
		t.Error("Expected error for unsupported currency")
	}
}

func TestValidate_MalformedDate(t *testing.T) {
	doc := validDocument()
	doc.IssueDate = "01.08.2026"

	if err := Validate(doc); err == nil {
		t.Error("Expected error for malformed issue date")
	}
}

func TestValidate_NoLineItems(t *testing.T) {
	doc := validDocument()
	doc.LineItems = nil
	doc.Subtotal, doc.TaxTotal, doc.GrandTotal = 0, 0, 0

	if err := Validate(doc); err == nil {
		t.Error("Expected error for empty line items")
	}
}

func TestValidate_NonPositiveQuantity(t *testing.T) {
	for _, q := range []float64{0, -1} {
		doc := validDocument()
		doc.LineItems[0].Quantity = q
		if err := Validate(doc); err == nil {
			t.Errorf("Expected error for quantity %g", q)
		}
	}
}

func TestValidate_LineTotalMismatch(t *testing.T) {
	doc := validDocument()
	doc.LineItems[0].LineTotal = 108.50

	err := Validate(doc)
	if err == nil {
		t.Fatal("Expected error for line total mismatch")
	}
	if !strings.Contains(err.Error(), "line_total") {
		t.Errorf("Expected line_total in error, got: %v", err)
	}
}

func TestValidate_LineTotalWithinEpsilon(t *testing.T) {
	doc := validDocument()
	doc.LineItems[0].LineTotal = 108.104 // derived is 108.10, inside 0.005

	if err := Validate(doc); err != nil {
		t.Errorf("Expected tolerance within epsilon, got: %v", err)
	}
}

func TestValidate_TotalsMismatch(t *testing.T) {
	doc := validDocument()
	doc.GrandTotal = 200.00

	err := Validate(doc)
	if err == nil {
		t.Fatal("Expected error for grand total mismatch")
	}

	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if vErr.Field != "grand_total" {
		t.Errorf("Field = %q, want grand_total", vErr.Field)
	}
}

func TestValidate_TotalsArithmetic(t *testing.T) {
	doc := validDocument()
	if err := Validate(doc); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if diff := doc.Subtotal + doc.TaxTotal - doc.GrandTotal; diff > 0.01 || diff < -0.01 {
		t.Errorf("subtotal + taxTotal != grandTotal (diff %g)", diff)
	}
}

func TestValidate_CountryCodes(t *testing.T) {
	bad := []string{"", "C", "CHE", "ch", "C1", "Switzerland"}
	for _, code := range bad {
		doc := validDocument()
		doc.Recipient.CountryCode = code
		if err := Validate(doc); err == nil {
			t.Errorf("Expected error for country code %q", code)
		}
	}

	doc := validDocument()
	doc.Recipient.CountryCode = "DE"
	if err := Validate(doc); err != nil {
		t.Errorf("Expected DE to validate, got: %v", err)
	}
}

func TestValidate_MissingPartyName(t *testing.T) {
	doc := validDocument()
	doc.Issuer.DisplayName = ""

	if err := Validate(doc); err == nil {
		t.Error("Expected error for missing issuer name")
	}
}
