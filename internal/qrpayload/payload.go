// Package qrpayload builds the structured text payload embedded in the
// payment-slip symbol. The payload is a fixed sequence of newline-separated
// elements whose order, separators and character set are checked by third
// party scanning apps, so everything here is byte-exact and deterministic.
package qrpayload

import (
	"fmt"
	"strings"

	"github.com/fakturly/billing-engine/pkg/docmodel"
)

// Fixed header elements of the payload grammar
const (
	typeTag    = "SPC"
	versionTag = "0200"
	codingTag  = "1"
	trailerTag = "EPD"
)

// ElementCount is the mandated number of newline-separated elements
const ElementCount = 32

// MaxAmount is the largest representable amount
const MaxAmount = 999999999.99

// Field length caps from the payload grammar
const (
	maxNameLen     = 70
	maxAddrLineLen = 70
	maxPostalLen   = 16
	maxCityLen     = 35
	maxMessageLen  = 140
)

// ReferenceKind selects the payment reference scheme
type ReferenceKind string

const (
	// RefNone carries no structured reference, only the unstructured message
	RefNone ReferenceKind = "NON"
	// RefCreditor carries an ISO-11649 creditor reference (RF...)
	RefCreditor ReferenceKind = "SCOR"
)

// Input carries everything the encoder needs for one payload.
// Creditor must have an account IBAN; both parties must arrive with
// alpha-2 country codes (normalization happens upstream).
type Input struct {
	Creditor  docmodel.Party
	Debtor    docmodel.Party
	Amount    float64
	Currency  string
	RefKind   ReferenceKind
	Reference string
	Message   string
}

// Encode validates the input and assembles the payload string.
// Encoding the same input twice yields byte-identical output.
func Encode(in Input) (string, error) {
	if err := validate(&in); err != nil {
		return "", err
	}

	elements := make([]string, 0, ElementCount)

	// header: type, version, coding
	elements = append(elements, typeTag, versionTag, codingTag)

	// creditor account
	elements = append(elements, normalizeIBAN(in.Creditor.AccountIBAN))

	// creditor party, combined-address shape
	elements = append(elements, partyBlock(in.Creditor)...)

	// ultimate creditor: reserved, always empty
	elements = append(elements, emptyPartyBlock()...)

	// amount and currency
	elements = append(elements, fmt.Sprintf("%.2f", in.Amount), in.Currency)

	// debtor party
	elements = append(elements, partyBlock(in.Debtor)...)

	// reference type and value
	elements = append(elements, string(in.RefKind), in.Reference)

	// unstructured message, trailer, billing information placeholder
	elements = append(elements, in.Message, trailerTag, "")

	if len(elements) != ElementCount {
		panic(fmt.Sprintf("qrpayload: assembled %d elements, want %d", len(elements), ElementCount))
	}

	return strings.Join(elements, "\n"), nil
}

// partyBlock renders the 7-element combined address block:
// address type, name, address line 1, address line 2 (postal code + city),
// two reserved empty elements, country.
func partyBlock(p docmodel.Party) []string {
	line2 := strings.TrimSpace(p.PostalCode + " " + p.City)
	return []string{"K", p.DisplayName, p.StreetAddress, line2, "", "", p.CountryCode}
}

func emptyPartyBlock() []string {
	return []string{"", "", "", "", "", "", ""}
}

func normalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}

func validate(in *Input) error {
	iban := normalizeIBAN(in.Creditor.AccountIBAN)
	if iban == "" {
		return &docmodel.ValidationError{Field: "creditor.account_iban", Reason: "is required"}
	}
	if !strings.HasPrefix(iban, "CH") && !strings.HasPrefix(iban, "LI") {
		return &docmodel.ValidationError{
			Field:  "creditor.account_iban",
			Reason: fmt.Sprintf("country prefix %q is not part of the supported clearing system", prefixOf(iban)),
		}
	}
	if len(iban) != 21 {
		return &docmodel.ValidationError{
			Field:  "creditor.account_iban",
			Reason: fmt.Sprintf("must be 21 characters, got %d", len(iban)),
		}
	}
	if !isUpperAlnum(iban[2:]) {
		return &docmodel.ValidationError{
			Field:  "creditor.account_iban",
			Reason: "must contain only letters and digits after the country prefix",
		}
	}
	in.Creditor.AccountIBAN = iban

	if in.Amount <= 0 {
		return &docmodel.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("must be > 0, got %.2f", in.Amount),
		}
	}
	if in.Amount > MaxAmount {
		return &docmodel.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("exceeds maximum %.2f", float64(MaxAmount)),
		}
	}

	if in.Currency != "CHF" && in.Currency != "EUR" {
		return &docmodel.ValidationError{
			Field:  "currency",
			Reason: fmt.Sprintf("unsupported currency %q", in.Currency),
		}
	}

	if err := validateParty("creditor", &in.Creditor); err != nil {
		return err
	}
	if err := validateParty("debtor", &in.Debtor); err != nil {
		return err
	}

	switch in.RefKind {
	case RefNone:
		if in.Reference != "" {
			return &docmodel.ValidationError{Field: "reference", Reason: "must be empty for reference type NON"}
		}
	case RefCreditor:
		if !strings.HasPrefix(in.Reference, "RF") || len(in.Reference) > 25 {
			return &docmodel.ValidationError{
				Field:  "reference",
				Reason: fmt.Sprintf("invalid creditor reference %q", in.Reference),
			}
		}
	default:
		return &docmodel.ValidationError{
			Field:  "reference_kind",
			Reason: fmt.Sprintf("unknown reference type %q", in.RefKind),
		}
	}

	if err := checkText("message", in.Message, maxMessageLen); err != nil {
		return err
	}

	return nil
}

func validateParty(prefix string, p *docmodel.Party) error {
	if p.DisplayName == "" {
		return &docmodel.ValidationError{Field: prefix + ".display_name", Reason: "is required"}
	}
	if err := checkText(prefix+".display_name", p.DisplayName, maxNameLen); err != nil {
		return err
	}
	if err := checkText(prefix+".street_address", p.StreetAddress, maxAddrLineLen); err != nil {
		return err
	}
	if err := checkText(prefix+".postal_code", p.PostalCode, maxPostalLen); err != nil {
		return err
	}
	if err := checkText(prefix+".city", p.City, maxCityLen); err != nil {
		return err
	}
	if len(p.CountryCode) != 2 || !isUpperLetters(p.CountryCode) {
		return &docmodel.ValidationError{
			Field:  prefix + ".country_code",
			Reason: fmt.Sprintf("must be exactly two uppercase letters, got %q", p.CountryCode),
		}
	}
	return nil
}

// checkText enforces the length cap and the restricted character set.
// Violations are reported, never truncated or stripped.
func checkText(field, value string, maxLen int) error {
	if n := len([]rune(value)); n > maxLen {
		return &docmodel.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("exceeds %d characters (got %d)", maxLen, n),
		}
	}
	if r := firstDisallowed(value); r != -1 {
		return &docmodel.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("character %q is outside the payload character set", r),
		}
	}
	return nil
}

func isUpperAlnum(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func isUpperLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func prefixOf(iban string) string {
	if len(iban) < 2 {
		return iban
	}
	return iban[:2]
}
