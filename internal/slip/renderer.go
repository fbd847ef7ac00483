// Package slip draws the two-panel payment slip at the bottom of a page: a
// human-readable receipt and a machine-readable payment part carrying the
// scannable symbol.
package slip

import (
	"fmt"
	"image"

	"github.com/fakturly/billing-engine/internal/canvas"
	"github.com/fakturly/billing-engine/pkg/docmodel"
)

// HeightPt is the vertical space a page must reserve for the slip
var HeightPt = canvas.MmToPt(HeightMm)

// Params carries everything the slip displays. Symbol is the pre-generated
// payload bitmap; Reference may be empty (unstructured-message slips).
type Params struct {
	Creditor  docmodel.Party
	Debtor    docmodel.Party
	Amount    float64
	Currency  string
	Reference string
	Message   string
	Symbol    image.Image
	Locale    string
}

// Render draws the slip onto the current page of doc, anchored to the bottom
// of the page. Both regions redundantly show creditor, debtor and amount;
// optional empty sub-fields keep their line slot so positions never shift.
func Render(doc *canvas.Document, p Params) error {
	l := labelSet(p.Locale)
	top := canvas.A4HeightPt - HeightPt

	// horizontal cut line across the page, vertical cut line between regions
	dash := []float64{3, 3}
	doc.DrawLine(0, top, canvas.A4WidthPt, top, 0.5, dash, canvas.Black)
	receiptRight := canvas.MmToPt(ReceiptWidth)
	doc.DrawLine(receiptRight, top, receiptRight, canvas.A4HeightPt, 0.5, dash, canvas.Black)

	renderReceipt(doc, top, l, &p)
	return renderPaymentPart(doc, top, l, &p)
}

func renderReceipt(doc *canvas.Document, top float64, l map[string]string, p *Params) {
	at := regionOrigin(top, 0)

	drawField(doc, at, receiptLayout.title, l["receipt"])

	drawField(doc, at, receiptLayout.account, l["account_payable"])
	drawAddress(doc, at, receiptLayout.account, receiptLeading, receiptValueSize,
		p.Creditor.AccountIBAN, p.Creditor)

	drawField(doc, at, receiptLayout.payableBy, l["payable_by"])
	drawAddress(doc, at, receiptLayout.payableBy, receiptLeading, receiptValueSize,
		"", p.Debtor)

	drawField(doc, at, receiptLayout.currencyLabel, l["currency"])
	drawField(doc, at, receiptLayout.currencyValue, p.Currency)
	drawField(doc, at, receiptLayout.amountLabel, l["amount"])
	drawField(doc, at, receiptLayout.amountValue, formatAmount(p.Amount))

	// acceptance point, right-aligned to the region edge
	text := l["acceptance_point"]
	w := doc.MeasureTextWidth(text, receiptHeadingSize, canvas.StyleBold)
	doc.DrawText(text,
		at.x+canvas.MmToPt(receiptLayout.acceptanceXMm)-w,
		at.y+canvas.MmToPt(receiptLayout.acceptanceYMm),
		receiptHeadingSize, canvas.StyleBold, canvas.Black)
}

func renderPaymentPart(doc *canvas.Document, top float64, l map[string]string, p *Params) error {
	at := regionOrigin(top, canvas.MmToPt(ReceiptWidth))

	drawField(doc, at, paymentLayout.title, l["payment_part"])

	edge := canvas.MmToPt(SymbolEdgeMm)
	if err := doc.DrawImage(p.Symbol,
		at.x+canvas.MmToPt(paymentLayout.symbolXMm),
		at.y+canvas.MmToPt(paymentLayout.symbolYMm),
		edge, edge); err != nil {
		return fmt.Errorf("slip: symbol placement failed: %w", err)
	}

	drawField(doc, at, paymentLayout.currencyLabel, l["currency"])
	drawField(doc, at, paymentLayout.currencyValue, p.Currency)
	drawField(doc, at, paymentLayout.amountLabel, l["amount"])
	drawField(doc, at, paymentLayout.amountValue, formatAmount(p.Amount))

	drawField(doc, at, paymentLayout.account, l["account_payable"])
	drawAddress(doc, at, paymentLayout.account, paymentLeading, paymentValueSize,
		p.Creditor.AccountIBAN, p.Creditor)

	// the reference slot is drawn even when empty so the block below stays put
	drawField(doc, at, paymentLayout.reference, l["reference"])
	drawValueLine(doc, at, paymentLayout.reference, paymentLeading, paymentValueSize, 1, p.Reference)

	drawField(doc, at, paymentLayout.additional, l["additional_info"])
	drawValueLine(doc, at, paymentLayout.additional, paymentLeading, paymentValueSize, 1, p.Message)

	drawField(doc, at, paymentLayout.payableBy, l["payable_by"])
	drawAddress(doc, at, paymentLayout.payableBy, paymentLeading, paymentValueSize,
		"", p.Debtor)

	return nil
}

type origin struct {
	x, y float64
}

func regionOrigin(top, offsetX float64) origin {
	return origin{x: offsetX, y: top}
}

func drawField(doc *canvas.Document, at origin, f textField, value string) {
	style := canvas.StyleRegular
	if f.bold {
		style = canvas.StyleBold
	}
	doc.DrawText(value, at.x+canvas.MmToPt(f.xMm), at.y+canvas.MmToPt(f.yMm), f.size, style, canvas.Black)
}

// drawAddress draws up to four fixed value slots under a heading: an
// optional account line, the party name, street, and postal code + city.
// Empty values still consume their slot.
func drawAddress(doc *canvas.Document, at origin, heading textField, leadingMm, size float64, account string, p docmodel.Party) {
	lines := make([]string, 0, 4)
	if account != "" {
		lines = append(lines, formatIBAN(account))
	}
	lines = append(lines, p.DisplayName, p.StreetAddress, joinPostalCity(p))

	for i, line := range lines {
		drawValueLine(doc, at, heading, leadingMm, size, i+1, line)
	}
}

func drawValueLine(doc *canvas.Document, at origin, heading textField, leadingMm, size float64, slot int, value string) {
	y := heading.yMm + float64(slot)*leadingMm
	doc.DrawText(value, at.x+canvas.MmToPt(heading.xMm), at.y+canvas.MmToPt(y), size, canvas.StyleRegular, canvas.Black)
}

func joinPostalCity(p docmodel.Party) string {
	switch {
	case p.PostalCode == "":
		return p.City
	case p.City == "":
		return p.PostalCode
	default:
		return p.PostalCode + " " + p.City
	}
}

// formatAmount renders an amount with two decimals and an apostrophe
// thousands separator, the convention used on printed slips.
func formatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	if len(intPart) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '\'')
		}
		out = append(out, c)
	}
	return string(out) + frac
}

// formatIBAN groups an IBAN into 4-character blocks for display
func formatIBAN(iban string) string {
	var out []byte
	for i := 0; i < len(iban); i++ {
		if i > 0 && i%4 == 0 {
			out = append(out, ' ')
		}
		out = append(out, iban[i])
	}
	return string(out)
}
