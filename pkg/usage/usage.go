// Package usage provides a fire-and-forget sink for per-call token
// accounting. Recording never blocks or fails an orchestration run.
package usage

import (
	"context"

	"github.com/rs/zerolog"
)

// Sample captures token consumption for one provider round trip.
type Sample struct {
	RunID        string `json:"run_id"`
	AgentName    string `json:"agent_name"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Recorder accepts usage samples. Implementations must be safe for
// concurrent use and must not return errors to callers.
type Recorder interface {
	Record(ctx context.Context, s Sample)
}

// LogRecorder writes usage samples to a structured log.
type LogRecorder struct {
	logger zerolog.Logger
}

// NewLogRecorder creates a Recorder backed by the given logger.
func NewLogRecorder(logger zerolog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record logs the sample at info level.
func (r *LogRecorder) Record(_ context.Context, s Sample) {
	r.logger.Info().
		Str("run_id", s.RunID).
		Str("agent", s.AgentName).
		Str("provider", s.Provider).
		Str("model", s.Model).
		Int("input_tokens", s.InputTokens).
		Int("output_tokens", s.OutputTokens).
		Msg("Usage recorded")
}

// NopRecorder discards all samples.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(context.Context, Sample) {}
