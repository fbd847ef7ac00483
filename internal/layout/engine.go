// Package layout flows the commercial document body across one or more
// pages: header, party blocks, item table, totals and notes, keeping the
// bottom of every page clear for the payment slip.
package layout

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"github.com/fakturly/billing-engine/internal/canvas"
	"github.com/fakturly/billing-engine/internal/slip"
	"github.com/fakturly/billing-engine/pkg/docmodel"
)

// Body geometry in points
var (
	marginLeft = canvas.MmToPt(18)
	marginTop  = canvas.MmToPt(16)
	rightEdge  = canvas.A4WidthPt - canvas.MmToPt(18)

	// lowWater is the cursor threshold that forces a page break: everything
	// below it is reserved for the payment slip plus a safety band.
	lowWater = canvas.A4HeightPt - slip.HeightPt - canvas.MmToPt(10)
)

// Numeric column right edges of the item table. Values are right-aligned to
// these by measured width, so the edges hold across every row.
var (
	colTotalRight = rightEdge
	colTaxRight   = rightEdge - 75
	colPriceRight = rightEdge - 130
	colQtyRight   = rightEdge - 205
)

const (
	rowLeading   = 15.0
	bodySize     = 9.0
	headingSize  = 9.0
	titleSize    = 14.0
	issuerSize   = 16.0
	maxDescRunes = 55
)

// Engine renders one document body. One Engine serves one render call.
type Engine struct {
	doc    *canvas.Document
	model  *docmodel.Document
	spec   KindSpec
	labels map[string]string
	locale string
	logo   image.Image
	y      float64
}

// New prepares a layout engine for a validated document. logo may be nil.
func New(doc *canvas.Document, model *docmodel.Document, locale string, logo image.Image) *Engine {
	return &Engine{
		doc:    doc,
		model:  model,
		spec:   SpecFor(model.Kind),
		labels: bodyLabelSet(locale),
		locale: locale,
		logo:   logo,
	}
}

// Render flows the body onto the document. The slip area at the bottom of
// the last page is left untouched for the payment-slip renderer.
func (e *Engine) Render(ctx context.Context) error {
	if err := e.openPage(ctx); err != nil {
		return err
	}

	e.renderHeader()
	e.renderParties()
	if err := e.renderItemTable(ctx); err != nil {
		return err
	}
	if err := e.renderTotals(ctx); err != nil {
		return err
	}
	return e.renderNotes(ctx)
}

// openPage starts a new page and resets the cursor. The check on ctx is the
// engine's single cooperative cancellation point.
func (e *Engine) openPage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("layout: render cancelled: %w", err)
	}
	e.doc.AddPage()
	e.y = marginTop
	if n := e.doc.PageCount(); n > 1 {
		marker := fmt.Sprintf("%s %d", e.labels["page"], n)
		e.drawRightAligned(marker, rightEdge, marginTop-8, bodySize-2, canvas.StyleRegular)
	}
	return nil
}

func (e *Engine) renderHeader() {
	issuer := e.model.Issuer

	e.doc.DrawText(issuer.DisplayName, marginLeft, e.y+issuerSize, issuerSize, canvas.StyleBold, canvas.Black)
	e.y += issuerSize + 6

	if issuer.VATNumber != "" {
		e.doc.DrawText(e.labels["vat_number"]+" "+issuer.VATNumber,
			marginLeft, e.y+bodySize, bodySize, canvas.StyleRegular, canvas.Black)
	}
	e.y += rowLeading

	e.renderHeaderAssets()

	e.y += 14
	title := fmt.Sprintf("%s %s", e.labels[e.spec.TitleKey], e.model.Number)
	e.doc.DrawText(title, marginLeft, e.y+titleSize, titleSize, canvas.StyleBold, canvas.Black)
	e.y += titleSize + 10

	meta := [][2]string{
		{e.labels["issue_date"], formatDate(e.locale, e.model.IssueDate)},
		{e.labels[e.spec.DeadlineKey], formatDate(e.locale, e.model.DeadlineDate)},
	}
	if e.model.Status != "" {
		meta = append(meta, [2]string{e.labels["status"], e.model.Status})
	}
	for _, pair := range meta {
		e.doc.DrawText(pair[0], marginLeft, e.y+bodySize, bodySize, canvas.StyleBold, canvas.Black)
		e.doc.DrawText(pair[1], marginLeft+90, e.y+bodySize, bodySize, canvas.StyleRegular, canvas.Black)
		e.y += rowLeading
	}
	e.y += 8
}

// renderHeaderAssets places the logo and the document-number barcode strip
// in the top-right corner. Both are best-effort: a missing logo or an
// unencodable number leaves the corner empty.
func (e *Engine) renderHeaderAssets() {
	x := rightEdge
	yTop := marginTop

	if e.logo != nil {
		w := canvas.MmToPt(35)
		bounds := e.logo.Bounds()
		h := w * float64(bounds.Dy()) / float64(bounds.Dx())
		if max := canvas.MmToPt(20); h > max {
			w = w * max / h
			h = max
		}
		if err := e.doc.DrawImage(e.logo, x-w, yTop, w, h); err != nil {
			log.Printf("Warning: logo placement failed: %v", err)
		}
		yTop += h + 8
	}

	if strip, err := numberStrip(e.model.Number); err != nil {
		log.Printf("Warning: document number barcode skipped: %v", err)
	} else {
		w, h := canvas.MmToPt(35), canvas.MmToPt(7)
		if err := e.doc.DrawImage(strip, x-w, yTop, w, h); err != nil {
			log.Printf("Warning: barcode placement failed: %v", err)
		}
	}
}

// numberStrip encodes the document number as a Code128 strip for archival
// scanning of printed copies.
func numberStrip(number string) (image.Image, error) {
	bc, err := code128.Encode(number)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(bc, 400, 60)
	if err != nil {
		return nil, err
	}
	// the strip carries a 16-bit gray color model, which PNG-encodes to a
	// bit depth the PDF writer cannot register; re-sample to 8-bit gray
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return gray, nil
}

func (e *Engine) renderParties() {
	issuerX := marginLeft
	recipientX := marginLeft + 260

	top := e.y
	e.renderPartyBlock(e.model.Issuer, issuerX, top)
	e.renderPartyBlock(e.model.Recipient, recipientX, top)

	// four fixed line slots per block
	e.y = top + 4*rowLeading + 12
}

// renderPartyBlock draws the fixed four-line name/address group. Empty
// sub-fields keep their slot so both blocks stay level.
func (e *Engine) renderPartyBlock(p docmodel.Party, x, top float64) {
	lines := []string{p.StreetAddress, joinPostalCity(p), p.CountryCode}

	e.doc.DrawText(p.DisplayName, x, top+bodySize, bodySize, canvas.StyleBold, canvas.Black)
	for i, line := range lines {
		e.doc.DrawText(line, x, top+float64(i+1)*rowLeading+bodySize, bodySize, canvas.StyleRegular, canvas.Black)
	}
}

func (e *Engine) renderItemTable(ctx context.Context) error {
	e.renderTableHeader()

	for _, item := range e.model.LineItems {
		if e.y+rowLeading > lowWater {
			if err := e.openPage(ctx); err != nil {
				return err
			}
			e.renderTableHeader()
		}
		e.renderItemRow(item)
	}
	return nil
}

func (e *Engine) renderTableHeader() {
	base := e.y + headingSize

	e.doc.DrawText(e.labels["description"], marginLeft, base, headingSize, canvas.StyleBold, canvas.Black)
	e.drawRightAligned(e.labels["quantity"], colQtyRight, base, headingSize, canvas.StyleBold)
	e.drawRightAligned(e.labels["unit_price"], colPriceRight, base, headingSize, canvas.StyleBold)
	e.drawRightAligned(e.labels["tax_rate"], colTaxRight, base, headingSize, canvas.StyleBold)
	e.drawRightAligned(e.labels["line_total"], colTotalRight, base, headingSize, canvas.StyleBold)

	ruleY := e.y + rowLeading
	e.doc.DrawLine(marginLeft, ruleY, rightEdge, ruleY, 0.75, nil, canvas.Black)
	e.y += rowLeading + 6
}

func (e *Engine) renderItemRow(item docmodel.LineItem) {
	base := e.y + bodySize

	e.doc.DrawText(truncate(item.Description, maxDescRunes), marginLeft, base, bodySize, canvas.StyleRegular, canvas.Black)
	e.drawRightAligned(formatQuantity(item.Quantity), colQtyRight, base, bodySize, canvas.StyleRegular)
	e.drawRightAligned(fmt.Sprintf("%.2f", item.UnitPrice), colPriceRight, base, bodySize, canvas.StyleRegular)
	e.drawRightAligned(fmt.Sprintf("%.1f%%", item.TaxRatePercent), colTaxRight, base, bodySize, canvas.StyleRegular)
	e.drawRightAligned(fmt.Sprintf("%.2f", item.DerivedLineTotal()), colTotalRight, base, bodySize, canvas.StyleRegular)

	e.y += rowLeading
}

func (e *Engine) renderTotals(ctx context.Context) error {
	needed := 3*rowLeading + 20
	if e.y+needed > lowWater {
		if err := e.openPage(ctx); err != nil {
			return err
		}
	}

	e.y += 6
	labelX := colTaxRight - 60

	rows := []struct {
		label string
		value float64
		bold  bool
	}{
		{e.labels["subtotal"], e.model.Subtotal, false},
		{e.labels["tax_total"], e.model.TaxTotal, false},
		{e.labels["grand_total"], e.model.GrandTotal, true},
	}
	for _, row := range rows {
		style := canvas.StyleRegular
		if row.bold {
			ruleY := e.y + 2
			e.doc.DrawLine(labelX, ruleY, rightEdge, ruleY, 0.75, nil, canvas.Black)
			e.y += 4
			style = canvas.StyleBold
		}
		base := e.y + bodySize
		e.doc.DrawText(row.label, labelX, base, bodySize, style, canvas.Black)
		e.drawRightAligned(fmt.Sprintf("%s %.2f", e.model.Currency, row.value), colTotalRight, base, bodySize, style)
		e.y += rowLeading
	}
	e.y += 8
	return nil
}

func (e *Engine) renderNotes(ctx context.Context) error {
	if e.model.Notes == "" {
		return nil
	}

	if e.y+2*rowLeading > lowWater {
		if err := e.openPage(ctx); err != nil {
			return err
		}
	}

	e.doc.DrawText(e.labels["notes"], marginLeft, e.y+bodySize, bodySize, canvas.StyleBold, canvas.Black)
	e.y += rowLeading

	for _, line := range splitLines(e.model.Notes) {
		if e.y+rowLeading > lowWater {
			if err := e.openPage(ctx); err != nil {
				return err
			}
		}
		e.doc.DrawText(truncate(line, 110), marginLeft, e.y+bodySize, bodySize, canvas.StyleRegular, canvas.Black)
		e.y += rowLeading
	}
	return nil
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func (e *Engine) drawRightAligned(text string, rightX, baseY, size float64, style canvas.Style) {
	w := e.doc.MeasureTextWidth(text, size, style)
	e.doc.DrawText(text, rightX-w, baseY, size, style, canvas.Black)
}

// truncate cuts a string beyond max runes and appends an ellipsis.
// Long descriptions are truncated, not wrapped.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
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
