package recommend

import "fmt"

// Board identifies which part of the deck a recommendation targets.
type Board string

const (
	BoardMainboard Board = "mainboard"
	BoardSideboard Board = "sideboard"
	BoardStaging   Board = "staging"
)

// ParseBoard validates a board name from model input.
func ParseBoard(s string) (Board, error) {
	switch Board(s) {
	case BoardMainboard, BoardSideboard, BoardStaging:
		return Board(s), nil
	default:
		return "", fmt.Errorf("unknown board: %q", s)
	}
}

// Candidate is a card proposal as emitted by the model. Untrusted
// until resolved against the card store.
type Candidate struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// ResolvedCard is a vetted recommendation: looked up, legality-checked
// and quantity-capped.
type ResolvedCard struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	ManaCost   string  `json:"mana_cost,omitempty"`
	TypeLine   string  `json:"type_line,omitempty"`
	PriceUSD   float64 `json:"price_usd,omitempty"`
	BasicLand  bool    `json:"basic_land,omitempty"`
	Restricted bool    `json:"restricted,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// RejectionReason classifies why a candidate was dropped.
type RejectionReason string

const (
	RejectedNotFound RejectionReason = "not_found"
	RejectedBanned   RejectionReason = "banned"
	RejectedNotLegal RejectionReason = "not_legal"
)

// Rejection records a dropped candidate so the model can correct its
// final answer instead of claiming success.
type Rejection struct {
	Name   string          `json:"name"`
	Reason RejectionReason `json:"reason"`
	Format string          `json:"format,omitempty"`
}
