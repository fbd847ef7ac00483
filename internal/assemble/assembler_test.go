package assemble

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fakturly/billing-engine/internal/assets"
	"github.com/fakturly/billing-engine/pkg/docmodel"
)

func testModel() *docmodel.Document {
	li := docmodel.LineItem{
		Description:    "Consulting day",
		Quantity:       1,
		UnitPrice:      100.00,
		TaxRatePercent: 8.1,
	}
	li.LineTotal = li.DerivedLineTotal()

	return &docmodel.Document{
		Kind:         docmodel.KindInvoice,
		Number:       "2026-0042",
		IssueDate:    "2026-08-01",
		DeadlineDate: "2026-08-31",
		Currency:     "CHF",
		LineItems:    []docmodel.LineItem{li},
		Subtotal:     100.00,
		TaxTotal:     8.10,
		GrandTotal:   108.10,
		Issuer: docmodel.Party{
			DisplayName:   "Muster Treuhand AG",
			StreetAddress: "Bahnhofstrasse 12",
			PostalCode:    "8001",
			City:          "Zürich",
			CountryCode:   "CH",
			AccountIBAN:   "CH4431999123000889012",
		},
		Recipient: docmodel.Party{
			DisplayName: "Jean Dupont",
			PostalCode:  "1202",
			City:        "Genève",
			CountryCode: "CH",
		},
	}
}

func newAssembler() *Assembler {
	return New(assets.NewFetcher(500 * time.Millisecond))
}

func TestRender_SingleItem(t *testing.T) {
	res, err := newAssembler().Render(context.Background(), testModel(), Options{Locale: "en"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.HasPrefix(res.PDF, []byte("%PDF")) {
		t.Error("Expected PDF output")
	}
	if res.Filename != "invoice-2026-0042.pdf" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if res.Pages != 1 {
		t.Errorf("Expected 1 page, got %d", res.Pages)
	}
}

func TestBuildPayload_AmountField(t *testing.T) {
	// quantity=1, unitPrice=100.00, taxRate=8.1 -> grand total 108.10
	payload, err := BuildPayload(testModel())
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}

	elements := strings.Split(payload, "\n")
	if elements[18] != "108.10" {
		t.Errorf("Payload amount element = %q, want \"108.10\"", elements[18])
	}
	if elements[29] != "Invoice 2026-0042" {
		t.Errorf("Payload message element = %q", elements[29])
	}
}

func TestRender_MissingIBAN(t *testing.T) {
	model := testModel()
	model.Issuer.AccountIBAN = ""

	_, err := newAssembler().Render(context.Background(), model, Options{})
	if err == nil {
		t.Fatal("Expected validation error for missing IBAN")
	}

	var vErr *docmodel.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(vErr.Field, "account_iban") {
		t.Errorf("Expected IBAN field in error, got %q", vErr.Field)
	}
}

func TestRender_LineTotalMismatch(t *testing.T) {
	model := testModel()
	model.LineItems[0].LineTotal = 999.99

	_, err := newAssembler().Render(context.Background(), model, Options{})
	if err == nil {
		t.Fatal("Expected validation error for line total mismatch")
	}

	var vErr *docmodel.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T: %v", err, err)
	}
}

func TestRender_ManyItemsTwoPages(t *testing.T) {
	model := testModel()
	model.LineItems = nil
	model.Subtotal, model.TaxTotal, model.GrandTotal = 0, 0, 0
	for i := 0; i < 40; i++ {
		li := docmodel.LineItem{
			Description:    "Consulting day",
			Quantity:       1,
			UnitPrice:      100.00,
			TaxRatePercent: 8.1,
		}
		li.LineTotal = li.DerivedLineTotal()
		model.LineItems = append(model.LineItems, li)
		model.Subtotal += li.NetAmount()
		model.TaxTotal += li.TaxAmount()
	}
	model.GrandTotal = model.Subtotal + model.TaxTotal

	res, err := newAssembler().Render(context.Background(), model, Options{Locale: "de"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Expected 2 pages for 40 items, got %d", res.Pages)
	}
}

func TestRender_UnreachableLogoDegrades(t *testing.T) {
	res, err := newAssembler().Render(context.Background(), testModel(), Options{
		Assets: assets.Sources{LogoURL: "http://127.0.0.1:1/logo.png"},
	})
	if err != nil {
		t.Fatalf("Expected render to succeed without logo, got: %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("Expected 1 page, got %d", res.Pages)
	}
}

func TestRender_QuoteFilename(t *testing.T) {
	model := testModel()
	model.Kind = docmodel.KindQuote
	model.Number = "Q 17/b"

	res, err := newAssembler().Render(context.Background(), model, Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Filename != "quote-Q-17-b.pdf" {
		t.Errorf("Filename = %q", res.Filename)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newAssembler().Render(ctx, testModel(), Options{}); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
