// Package canvas wraps the low-level PDF primitives: page assembly, font
// embedding, text measurement and drawing. The rest of the engine treats it
// as a black box and works purely in points.
package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// PtPerMm converts millimeters to points (1pt = 1/72 inch)
const PtPerMm = 72.0 / 25.4

// A4 page size in points
const (
	A4WidthPt  = 595.28
	A4HeightPt = 841.89
)

// MmToPt converts a millimeter length to points
func MmToPt(mm float64) float64 {
	return mm * PtPerMm
}

// Style selects the weight of the active font family
type Style string

const (
	StyleRegular Style = ""
	StyleBold    Style = "B"
)

// Color is an RGB triple in 0..255
type Color struct {
	R, G, B int
}

var Black = Color{0, 0, 0}

// Document is a multi-page A4 canvas. One Document serves one render call;
// it is not safe for concurrent use and holds no state across renders.
type Document struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
	family    string
	imageSeq  int
}

// NewDocument creates an empty A4 document with no pages.
// Until a font is embedded, text uses the built-in Helvetica family through
// a cp1252 translator; embedded fonts carry full Unicode coverage.
func NewDocument() *Document {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	return &Document{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		family:    "Helvetica",
	}
}

// EmbedFont registers a TTF font for the given style. The first embedded
// style switches the document from the built-in family to the embedded one.
func (d *Document) EmbedFont(style Style, ttf []byte) error {
	if len(ttf) == 0 {
		return fmt.Errorf("canvas: empty font data")
	}

	d.pdf.AddUTF8FontFromBytes("embedded", string(style), ttf)
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("canvas: font embedding failed: %w", err)
	}

	d.family = "embedded"
	d.translate = nil
	return nil
}

// AddPage appends a blank page and makes it current
func (d *Document) AddPage() {
	d.pdf.AddPage()
}

// PageCount returns the number of pages added so far
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// DrawText draws text with its baseline at (x, y)
func (d *Document) DrawText(text string, x, y, sizePt float64, style Style, c Color) {
	d.assertOnPage(x, y)
	d.pdf.SetFont(d.family, string(style), sizePt)
	d.pdf.SetTextColor(c.R, c.G, c.B)
	d.pdf.Text(x, y, d.encode(text))
}

// MeasureTextWidth returns the rendered width of text in points
func (d *Document) MeasureTextWidth(text string, sizePt float64, style Style) float64 {
	d.pdf.SetFont(d.family, string(style), sizePt)
	return d.pdf.GetStringWidth(d.encode(text))
}

// DrawLine draws a line between two points. A nil dash pattern draws solid.
func (d *Document) DrawLine(x1, y1, x2, y2, thicknessPt float64, dash []float64, c Color) {
	d.assertOnPage(x1, y1)
	d.assertOnPage(x2, y2)
	d.pdf.SetDrawColor(c.R, c.G, c.B)
	d.pdf.SetLineWidth(thicknessPt)
	if len(dash) > 0 {
		d.pdf.SetDashPattern(dash, 0)
		defer d.pdf.SetDashPattern([]float64{}, 0)
	}
	d.pdf.Line(x1, y1, x2, y2)
}

// DrawRect draws a rectangle outline; fill draws a filled one
func (d *Document) DrawRect(x, y, w, h, thicknessPt float64, fill bool, c Color) {
	d.assertOnPage(x, y)
	d.assertOnPage(x+w, y+h)
	style := "D"
	if fill {
		style = "F"
		d.pdf.SetFillColor(c.R, c.G, c.B)
	} else {
		d.pdf.SetDrawColor(c.R, c.G, c.B)
		d.pdf.SetLineWidth(thicknessPt)
	}
	d.pdf.Rect(x, y, w, h, style)
}

// DrawImage places a decoded raster image at (x, y) scaled to w x h points
func (d *Document) DrawImage(img image.Image, x, y, w, h float64) error {
	d.assertOnPage(x, y)
	d.assertOnPage(x+w, y+h)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("canvas: image encode failed: %w", err)
	}
	return d.DrawImageBytes(buf.Bytes(), "png", x, y, w, h)
}

// DrawImageBytes places raw PNG or JPEG bytes at (x, y) scaled to w x h points
func (d *Document) DrawImageBytes(data []byte, format string, x, y, w, h float64) error {
	d.assertOnPage(x, y)
	d.assertOnPage(x+w, y+h)

	d.imageSeq++
	name := fmt.Sprintf("img-%d", d.imageSeq)
	opts := gofpdf.ImageOptions{ImageType: format, ReadDpi: false}

	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("canvas: image registration failed: %w", err)
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("canvas: image placement failed: %w", err)
	}
	return nil
}

// Output serializes all pages to a byte buffer
func (d *Document) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("canvas: pdf serialization failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) encode(text string) string {
	if d.translate != nil {
		return d.translate(text)
	}
	return text
}

// assertOnPage panics on out-of-bounds coordinates: the layout engine always
// opens a new page before crossing the low-water mark, so drawing outside the
// page is a programming error, not a user-facing one.
func (d *Document) assertOnPage(x, y float64) {
	if d.pdf.PageCount() == 0 {
		panic("canvas: drawing before the first page was added")
	}
	if x < -0.01 || x > A4WidthPt+0.01 || y < -0.01 || y > A4HeightPt+0.01 {
		panic(fmt.Sprintf("canvas: coordinate (%.2f, %.2f) outside the page bounds", x, y))
	}
}
