package layout

import "github.com/fakturly/billing-engine/pkg/docmodel"

// KindSpec parameterizes the one layout engine for both document kinds:
// label keys and deadline-field semantics differ, the flow does not.
type KindSpec struct {
	TitleKey    string
	DeadlineKey string
	MessageWord string // leads the unstructured payment message
}

var kindSpecs = map[docmodel.Kind]KindSpec{
	docmodel.KindInvoice: {
		TitleKey:    "invoice_title",
		DeadlineKey: "due_date",
		MessageWord: "Invoice",
	},
	docmodel.KindQuote: {
		TitleKey:    "quote_title",
		DeadlineKey: "valid_until",
		MessageWord: "Quote",
	},
}

// SpecFor returns the descriptor for a document kind. Validation upstream
// guarantees the kind is known.
func SpecFor(kind docmodel.Kind) KindSpec {
	return kindSpecs[kind]
}
