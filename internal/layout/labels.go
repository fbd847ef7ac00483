package layout

import (
	"fmt"
	"time"
)

// Body label strings per locale tag
var bodyLabels = map[string]map[string]string{
	"en": {
		"invoice_title": "Invoice",
		"quote_title":   "Quote",
		"issue_date":    "Date",
		"due_date":      "Due date",
		"valid_until":   "Valid until",
		"description":   "Description",
		"quantity":      "Qty",
		"unit_price":    "Unit price",
		"tax_rate":      "VAT %",
		"line_total":    "Amount",
		"subtotal":      "Subtotal",
		"tax_total":     "VAT",
		"grand_total":   "Total",
		"notes":         "Notes",
		"vat_number":    "VAT no.",
		"status":        "Status",
		"page":          "Page",
	},
	"de": {
		"invoice_title": "Rechnung",
		"quote_title":   "Offerte",
		"issue_date":    "Datum",
		"due_date":      "Fällig am",
		"valid_until":   "Gültig bis",
		"description":   "Beschreibung",
		"quantity":      "Menge",
		"unit_price":    "Einzelpreis",
		"tax_rate":      "MwSt. %",
		"line_total":    "Betrag",
		"subtotal":      "Zwischensumme",
		"tax_total":     "MwSt.",
		"grand_total":   "Total",
		"notes":         "Bemerkungen",
		"vat_number":    "MwSt.-Nr.",
		"status":        "Status",
		"page":          "Seite",
	},
	"fr": {
		"invoice_title": "Facture",
		"quote_title":   "Devis",
		"issue_date":    "Date",
		"due_date":      "Échéance",
		"valid_until":   "Valable jusqu'au",
		"description":   "Description",
		"quantity":      "Qté",
		"unit_price":    "Prix unitaire",
		"tax_rate":      "TVA %",
		"line_total":    "Montant",
		"subtotal":      "Sous-total",
		"tax_total":     "TVA",
		"grand_total":   "Total",
		"notes":         "Remarques",
		"vat_number":    "No TVA",
		"status":        "Statut",
		"page":          "Page",
	},
}

func bodyLabelSet(locale string) map[string]string {
	if set, ok := bodyLabels[locale]; ok {
		return set
	}
	return bodyLabels["en"]
}

// formatDate renders an ISO date per the locale's convention. The date was
// validated upstream; a malformed value falls through unchanged.
func formatDate(locale, iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	switch locale {
	case "de", "fr":
		return t.Format("02.01.2006")
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), t.Format("Jan"), t.Year())
	}
}
