package domain

// QueryResult is what the pipeline returns for one question.
type QueryResult struct {
	// RunID identifies this pipeline invocation in logs and records.
	RunID string `json:"run_id"`

	// Answer is the user-facing answer text. On any blocked or gated
	// outcome this is the configured fallback message, never a raw
	// error.
	Answer string `json:"answer"`

	// Parsed is the full structured answer.
	Parsed ParsedAnswer `json:"json"`

	// Sources are the distinct filenames cited by quotes.
	Sources []string `json:"sources"`

	// Confidence is the advisory confidence estimate. Zero value when
	// the query never reached generation.
	Confidence Confidence `json:"confidence"`
}
