package slip

// The slip layout is an externally checked visual standard: every offset
// below is fixed layout data in millimeters from the slip's top-left corner,
// kept in one place so the positions stay auditable. Empty optional fields
// keep their slot; following fields never shift.

// Panel geometry in millimeters
const (
	HeightMm     = 105
	ReceiptWidth = 62
	PaymentWidth = 148
	SymbolEdgeMm = 46
	marginMm     = 5
)

// Per-field type sizes in points. The slip standard prescribes small sizes
// per region: receipt headings 6pt / values 8pt, payment part headings 8pt /
// values 10pt, titles 11pt.
const (
	titleSize          = 11
	receiptHeadingSize = 6
	receiptValueSize   = 8
	paymentHeadingSize = 8
	paymentValueSize   = 10
)

// Line leading in millimeters
const (
	receiptLeading = 3.3
	paymentLeading = 3.9
)

// textField fixes one label/value slot: offset from the region's top-left
// corner, size and weight.
type textField struct {
	xMm  float64
	yMm  float64
	size float64
	bold bool
}

// Receipt region offsets (region origin = slip top-left)
var receiptLayout = struct {
	title         textField
	account       textField
	payableBy     textField
	currencyLabel textField
	currencyValue textField
	amountLabel   textField
	amountValue   textField
	acceptanceXMm float64 // right edge for the right-aligned acceptance label
	acceptanceYMm float64
}{
	title:         textField{marginMm, 8, titleSize, true},
	account:       textField{marginMm, 15, receiptHeadingSize, true},
	payableBy:     textField{marginMm, 38, receiptHeadingSize, true},
	currencyLabel: textField{marginMm, 70, receiptHeadingSize, true},
	currencyValue: textField{marginMm, 74.5, receiptValueSize, false},
	amountLabel:   textField{17, 70, receiptHeadingSize, true},
	amountValue:   textField{17, 74.5, receiptValueSize, false},
	acceptanceXMm: ReceiptWidth - marginMm,
	acceptanceYMm: 86,
}

// Payment-part region offsets (region origin = slip top-left + 62mm)
var paymentLayout = struct {
	title         textField
	symbolXMm     float64
	symbolYMm     float64
	currencyLabel textField
	currencyValue textField
	amountLabel   textField
	amountValue   textField
	account       textField
	reference     textField
	additional    textField
	payableBy     textField
}{
	title:         textField{marginMm, 8, titleSize, true},
	symbolXMm:     marginMm,
	symbolYMm:     17,
	currencyLabel: textField{marginMm, 72, paymentHeadingSize, true},
	currencyValue: textField{marginMm, 77, paymentValueSize, false},
	amountLabel:   textField{22, 72, paymentHeadingSize, true},
	amountValue:   textField{22, 77, paymentValueSize, false},
	account:       textField{56, 12, paymentHeadingSize, true},
	reference:     textField{56, 36, paymentHeadingSize, true},
	additional:    textField{56, 52, paymentHeadingSize, true},
	payableBy:     textField{56, 68, paymentHeadingSize, true},
}
