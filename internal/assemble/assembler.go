// Package assemble orchestrates one render: validation, payload encoding,
// symbol generation, asset fetch, body layout, slip rendering and final
// serialization. Validation and encoding errors surface before any byte is
// drawn; a render never produces a partial document.
package assemble

import (
	"context"
	"fmt"
	"strings"

	"github.com/fakturly/billing-engine/internal/assets"
	"github.com/fakturly/billing-engine/internal/canvas"
	"github.com/fakturly/billing-engine/internal/layout"
	"github.com/fakturly/billing-engine/internal/qrpayload"
	"github.com/fakturly/billing-engine/internal/slip"
	"github.com/fakturly/billing-engine/internal/symbol"
	"github.com/fakturly/billing-engine/pkg/docmodel"
)

// symbolSizePx sizes the generated matrix for crisp printing at 46mm
const symbolSizePx = 1024

// Options tune one render call
type Options struct {
	Locale string
	Assets assets.Sources
	Level  symbol.Level // error-correction level, defaults to M
}

// Result is a finished render
type Result struct {
	PDF      []byte
	Filename string
	Pages    int
}

// Assembler builds documents. Stateless across renders; one Assembler
// serves concurrent calls.
type Assembler struct {
	fetcher *assets.Fetcher
}

// New creates an assembler using the given asset fetcher
func New(fetcher *assets.Fetcher) *Assembler {
	return &Assembler{fetcher: fetcher}
}

// Render turns a normalized document into final PDF bytes plus a suggested
// filename. Logo failures degrade; font failures and all validation or
// encoding failures abort the render.
func (a *Assembler) Render(ctx context.Context, model *docmodel.Document, opts Options) (*Result, error) {
	if err := docmodel.Validate(model); err != nil {
		return nil, err
	}

	payload, err := BuildPayload(model)
	if err != nil {
		return nil, err
	}

	level := opts.Level
	if level == "" {
		level = symbol.LevelMedium
	}
	mark, err := symbol.Generate(payload, symbolSizePx, level)
	if err != nil {
		return nil, err
	}

	bundle, err := a.fetcher.Fetch(ctx, opts.Assets)
	if err != nil {
		return nil, err
	}

	doc := canvas.NewDocument()
	if err := embedFonts(doc, bundle); err != nil {
		return nil, err
	}

	if err := layout.New(doc, model, opts.Locale, bundle.Logo).Render(ctx); err != nil {
		return nil, err
	}

	if err := slip.Render(doc, slip.Params{
		Creditor: model.Issuer,
		Debtor:   model.Recipient,
		Amount:   model.GrandTotal,
		Currency: model.Currency,
		Message:  paymentMessage(model),
		Symbol:   mark,
		Locale:   opts.Locale,
	}); err != nil {
		return nil, err
	}

	pdf, err := doc.Output()
	if err != nil {
		return nil, err
	}

	return &Result{
		PDF:      pdf,
		Filename: Filename(model),
		Pages:    doc.PageCount(),
	}, nil
}

// BuildPayload encodes the payment payload for a document. Exposed so the
// payload of a given document can be produced and inspected without
// rendering pages.
func BuildPayload(model *docmodel.Document) (string, error) {
	return qrpayload.Encode(qrpayload.Input{
		Creditor: model.Issuer,
		Debtor:   model.Recipient,
		Amount:   model.GrandTotal,
		Currency: model.Currency,
		RefKind:  qrpayload.RefNone,
		Message:  paymentMessage(model),
	})
}

func paymentMessage(model *docmodel.Document) string {
	return layout.SpecFor(model.Kind).MessageWord + " " + model.Number
}

// Filename derives the suggested download name from kind and number
func Filename(model *docmodel.Document) string {
	return fmt.Sprintf("%s-%s.pdf", model.Kind, sanitize(model.Number))
}

// embedFonts loads fetched font bytes into the canvas. When only the regular
// face is supplied it also serves bold so field positions stay stable.
func embedFonts(doc *canvas.Document, bundle *assets.Bundle) error {
	if len(bundle.FontRegular) == 0 && len(bundle.FontBold) == 0 {
		return nil
	}

	regular := bundle.FontRegular
	bold := bundle.FontBold
	if len(regular) == 0 {
		regular = bold
	}
	if len(bold) == 0 {
		bold = regular
	}

	if err := doc.EmbedFont(canvas.StyleRegular, regular); err != nil {
		return &assets.Error{Asset: "font-regular", Err: err}
	}
	if err := doc.EmbedFont(canvas.StyleBold, bold); err != nil {
		return &assets.Error{Asset: "font-bold", Err: err}
	}
	return nil
}

func sanitize(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out.WriteRune(r)
		default:
			out.WriteRune('-')
		}
	}
	return out.String()
}
