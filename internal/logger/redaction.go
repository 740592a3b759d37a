package logger

import (
	"io"
	"regexp"
)

// Redactor masks provider credentials before log lines reach a sink.
// Every vendor key format this engine can be configured with is
// covered, plus the generic shapes keys tend to leak in.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a redactor with the default patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			// Anthropic and OpenAI keys
			regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`),
			regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),

			// Google AI Studio keys
			regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),

			// Bearer tokens
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),

			// Generic key/secret assignments
			regexp.MustCompile(`api_key["\s:=]+[^\s"]+`),
			regexp.MustCompile(`secret["\s:=]+[^\s"]+`),
		},
	}
}

// Redact masks sensitive substrings.
func (r *Redactor) Redact(s string) string {
	result := s
	for _, pattern := range r.patterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// Wrap returns a writer that redacts everything written through it.
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{redactor: r, inner: w}
}

type redactingWriter struct {
	redactor *Redactor
	inner    io.Writer
}

func (w *redactingWriter) Write(p []byte) (int, error) {
	redacted := w.redactor.Redact(string(p))
	if _, err := w.inner.Write([]byte(redacted)); err != nil {
		return 0, err
	}
	// Report the original length so zerolog doesn't treat the
	// length change as a short write.
	return len(p), nil
}
