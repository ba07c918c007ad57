// Package identity holds the domain types for fiscal identity resolution:
// validated documents, resolved identities, and the parsing of raw registry
// payloads into typed lookup outcomes.
package identity

import (
	"regexp"
	"strings"

	dErrors "github.com/agusdc111/arreglocuil/pkg/domainerrors"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Document is a validated national document (DNI, 8 digits) or tax ID
// (CUIL/CUIT, 11 digits).
type Document struct {
	Value string
}

// ParseDocument validates raw input as a document. Hyphens and spaces are
// stripped first; anything that is not exactly 8 or 11 digits is rejected
// before any network call happens.
func ParseDocument(raw string) (Document, error) {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw))
	if !digitsOnly.MatchString(cleaned) {
		return Document{}, dErrors.New(dErrors.CodeBadRequest, "document must contain only digits")
	}
	if len(cleaned) != 8 && len(cleaned) != 11 {
		return Document{}, dErrors.New(dErrors.CodeBadRequest, "document must be 8 or 11 digits")
	}
	return Document{Value: cleaned}, nil
}

// IsTaxID reports whether the document is already an 11-digit CUIL/CUIT.
func (d Document) IsTaxID() bool { return len(d.Value) == 11 }

// String returns the digits.
func (d Document) String() string { return d.Value }

// Resolved is a fully resolved fiscal identity.
type Resolved struct {
	TaxID     string `json:"tax_id"`
	FullName  string `json:"full_name,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`

	// Source names the provider that produced the match.
	Source string `json:"source"`

	// NameMatchWarning is set when the provider could not single out one
	// person and the first candidate was taken on faith.
	NameMatchWarning bool `json:"name_match_warning,omitempty"`
}
