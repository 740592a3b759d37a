package orchestrator

import "github.com/marlowe/brewmind/pkg/recommend"

// StrategicSettings is the brew-level strategy record the model can
// update mid-run through the set_strategic_settings tool.
type StrategicSettings struct {
	Format    string   `json:"format,omitempty"`
	Archetype string   `json:"archetype,omitempty"`
	Colors    []string `json:"colors,omitempty"`
}

// RunState accumulates the side effects of one Ask call: which experts
// were consulted, which cards were recommended or rejected, and any
// settings the model changed. It is created fresh per call, threaded
// explicitly through every tool execution, and discarded when the call
// returns; nothing here is shared across concurrent orchestrations.
type RunState struct {
	ExpertsConsulted []string
	Recommended      map[recommend.Board][]recommend.ResolvedCard
	Rejected         []recommend.Rejection
	Settings         *StrategicSettings
}

// NewRunState creates an empty accumulator.
func NewRunState() *RunState {
	return &RunState{
		Recommended: make(map[recommend.Board][]recommend.ResolvedCard),
	}
}

// RecordExpert notes a consultation. Each expert appears at most once,
// in first-consultation order.
func (s *RunState) RecordExpert(expertID string) {
	for _, name := range s.ExpertsConsulted {
		if name == expertID {
			return
		}
	}
	s.ExpertsConsulted = append(s.ExpertsConsulted, expertID)
}

// MergeRecommendations folds newly resolved cards into a board,
// summing quantities per card identity and re-applying the copy cap.
func (s *RunState) MergeRecommendations(board recommend.Board, resolved []recommend.ResolvedCard) {
	s.Recommended[board] = recommend.Merge(s.Recommended[board], resolved)
}

// MergeSettings folds provided fields into the settings record,
// leaving absent fields untouched.
func (s *RunState) MergeSettings(format, archetype string, colors []string) {
	if s.Settings == nil {
		s.Settings = &StrategicSettings{}
	}
	if format != "" {
		s.Settings.Format = format
	}
	if archetype != "" {
		s.Settings.Archetype = archetype
	}
	if len(colors) > 0 {
		s.Settings.Colors = colors
	}
}

// EffectiveFormat returns the format legality checks should use: a
// format set earlier in this run wins over the context's original
// format.
func (s *RunState) EffectiveFormat(contextFormat string) string {
	if s.Settings != nil && s.Settings.Format != "" {
		return s.Settings.Format
	}
	return contextFormat
}
