package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marlowe/brewmind/pkg/cards"
)

// maxCopies is the per-card copy limit for non-basic lands. Restricted
// cards are capped at one copy instead.
const maxCopies = 4

// Validator turns untrusted model proposals into vetted deck records
// by resolving each name against the card store and applying format
// legality and copy-limit rules.
type Validator struct {
	store  cards.Store
	logger zerolog.Logger
}

// NewValidator creates a validator over the given card store.
func NewValidator(store cards.Store, logger zerolog.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// Validate resolves candidates against the card store under the given
// format. Validation failures are never errors: they become Rejections
// and the candidate is dropped. The returned error covers only store
// transport failures.
func (v *Validator) Validate(ctx context.Context, candidates []Candidate, format string) ([]ResolvedCard, []Rejection, error) {
	resolved := []ResolvedCard{}
	rejections := []Rejection{}

	for _, candidate := range candidates {
		card, err := v.store.FindByName(ctx, candidate.Name)
		if errors.Is(err, cards.ErrCardNotFound) {
			rejections = append(rejections, Rejection{
				Name:   candidate.Name,
				Reason: RejectedNotFound,
				Format: format,
			})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("card lookup failed for %q: %w", candidate.Name, err)
		}

		legality := card.LegalityIn(format)
		switch legality {
		case cards.LegalityBanned:
			rejections = append(rejections, Rejection{
				Name:   card.Name,
				Reason: RejectedBanned,
				Format: format,
			})
			continue
		case cards.LegalityNotLegal:
			rejections = append(rejections, Rejection{
				Name:   card.Name,
				Reason: RejectedNotLegal,
				Format: format,
			})
			continue
		}

		quantity := candidate.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		quantity = capQuantity(quantity, card.BasicLand, legality == cards.LegalityRestricted)

		resolved = append(resolved, ResolvedCard{
			ID:         card.ID,
			Name:       card.Name,
			Quantity:   quantity,
			ManaCost:   card.ManaCost,
			TypeLine:   card.TypeLine,
			PriceUSD:   card.PriceUSD,
			BasicLand:  card.BasicLand,
			Restricted: legality == cards.LegalityRestricted,
			Reason:     candidate.Reason,
		})
	}

	if len(rejections) > 0 {
		v.logger.Debug().
			Int("accepted", len(resolved)).
			Int("rejected", len(rejections)).
			Str("format", format).
			Msg("Candidates validated")
	}

	return resolved, rejections, nil
}

// capQuantity applies the copy-limit rules: basic lands are unlimited,
// restricted cards allow a single copy, everything else caps at four.
func capQuantity(quantity int, basicLand, restricted bool) int {
	if basicLand {
		return quantity
	}
	if restricted {
		return 1
	}
	if quantity > maxCopies {
		return maxCopies
	}
	return quantity
}

// Merge adds newly resolved cards to an existing board list. Cards
// sharing an id have their quantities summed and the copy cap
// re-applied, which makes repeated or overlapping recommendations
// within one run idempotent past the cap. First-seen order is kept.
func Merge(board []ResolvedCard, add []ResolvedCard) []ResolvedCard {
	merged := make([]ResolvedCard, len(board))
	copy(merged, board)

	index := make(map[string]int, len(merged))
	for i, card := range merged {
		index[card.ID] = i
	}

	for _, card := range add {
		if i, ok := index[card.ID]; ok {
			merged[i].Quantity = capQuantity(merged[i].Quantity+card.Quantity, card.BasicLand, card.Restricted)
			if card.Reason != "" {
				merged[i].Reason = card.Reason
			}
			continue
		}
		index[card.ID] = len(merged)
		merged = append(merged, card)
	}

	return merged
}
