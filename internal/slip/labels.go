package slip

// Pre-translated label strings per locale tag. The locale only selects
// labels; field positions never move between locales.
var labels = map[string]map[string]string{
	"en": {
		"payment_part":     "Payment part",
		"receipt":          "Receipt",
		"account_payable":  "Account / Payable to",
		"reference":        "Reference",
		"additional_info":  "Additional information",
		"payable_by":       "Payable by",
		"currency":         "Currency",
		"amount":           "Amount",
		"acceptance_point": "Acceptance point",
	},
	"de": {
		"payment_part":     "Zahlteil",
		"receipt":          "Empfangsschein",
		"account_payable":  "Konto / Zahlbar an",
		"reference":        "Referenz",
		"additional_info":  "Zusätzliche Informationen",
		"payable_by":       "Zahlbar durch",
		"currency":         "Währung",
		"amount":           "Betrag",
		"acceptance_point": "Annahmestelle",
	},
	"fr": {
		"payment_part":     "Section paiement",
		"receipt":          "Récépissé",
		"account_payable":  "Compte / Payable à",
		"reference":        "Référence",
		"additional_info":  "Informations supplémentaires",
		"payable_by":       "Payable par",
		"currency":         "Monnaie",
		"amount":           "Montant",
		"acceptance_point": "Point de dépôt",
	},
}

func labelSet(locale string) map[string]string {
	if set, ok := labels[locale]; ok {
		return set
	}
	return labels["en"]
}
