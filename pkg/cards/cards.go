package cards

import (
	"context"
	"errors"
)

// ErrCardNotFound is returned by Store implementations when no card in
// the database matches the requested name.
var ErrCardNotFound = errors.New("card not found")

// Legality classifies a card within one format.
type Legality string

const (
	LegalityLegal      Legality = "legal"
	LegalityBanned     Legality = "banned"
	LegalityNotLegal   Legality = "not_legal"
	LegalityRestricted Legality = "restricted"
)

// Card is a trusted record from the card database. The engine only
// reads it; ownership stays with the store.
type Card struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	ManaCost   string              `json:"mana_cost,omitempty"`
	TypeLine   string              `json:"type_line,omitempty"`
	PriceUSD   float64             `json:"price_usd,omitempty"`
	BasicLand  bool                `json:"basic_land,omitempty"`
	Legalities map[string]Legality `json:"legalities,omitempty"`
}

// LegalityIn returns the card's legality in the given format. A card
// with no entry for the format is treated as not legal there.
func (c *Card) LegalityIn(format string) Legality {
	if format == "" {
		return LegalityLegal
	}
	if status, ok := c.Legalities[format]; ok {
		return status
	}
	return LegalityNotLegal
}

// Store is the lookup contract against the card database. Search
// semantics (fuzzy matching, indexes) belong to the implementation;
// FindByName returns the best single match or ErrCardNotFound.
type Store interface {
	FindByName(ctx context.Context, name string) (*Card, error)

	// SimilarCards returns near-duplicate or upgrade candidates for a
	// named card, used to enrich expert prompts with real data.
	SimilarCards(ctx context.Context, name string, limit int) ([]Card, error)
}
