package domain

// Quote is one cited passage in a parsed answer.
type Quote struct {
	// Text is the quoted passage.
	Text string `json:"quote"`

	// Source is the filename the passage was quoted from.
	Source string `json:"source"`

	// Page is the page reference as reported by the generator. Kept as
	// a string because generators emit both numbers and ranges.
	Page string `json:"page,omitempty"`

	// Score is an optional relevance score attached by the generator.
	Score *float64 `json:"score,omitempty"`
}

// ParsedAnswer is the structured result recovered from raw generated
// text. It may be a degraded fallback object when parsing fails.
type ParsedAnswer struct {
	// AnswerText is the natural-language answer.
	AnswerText string `json:"answer_text"`

	// Quotes are the cited passages, in order.
	Quotes []Quote `json:"quotes"`

	// ReasoningOutline is a short bullet outline of the reasoning.
	ReasoningOutline []string `json:"reasoning_outline"`

	// UsedDocuments lists filenames the answer drew on. Cleared
	// whenever Quotes is empty so sourcing is never implied without
	// evidence.
	UsedDocuments []string `json:"used_documents"`

	// PolicyFlags records every policy rule that fired for this query.
	PolicyFlags []string `json:"policy_flags"`

	// Disclaimer is the standard disclaimer attached to every answer.
	Disclaimer string `json:"disclaimer"`
}

// HasFlag reports whether the named policy flag is present.
func (a ParsedAnswer) HasFlag(flag string) bool {
	for _, f := range a.PolicyFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// ParseOutcome describes how a ParsedAnswer was obtained from raw
// generator output.
type ParseOutcome int

// Parse outcomes, from best to worst.
const (
	// ParseStrict means the full raw text decoded cleanly.
	ParseStrict ParseOutcome = iota

	// ParseRecovered means decoding succeeded on a brace-delimited
	// substring extracted from surrounding prose.
	ParseRecovered

	// ParseDegraded means no structure could be recovered and the
	// answer is a synthesized fallback.
	ParseDegraded
)

// String returns the outcome name for logs.
func (o ParseOutcome) String() string {
	switch o {
	case ParseStrict:
		return "strict"
	case ParseRecovered:
		return "recovered"
	case ParseDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Confidence is the advisory confidence estimate for an answer.
// It never gates or blocks a response.
type Confidence struct {
	// Score is in [0,1].
	Score float64 `json:"score"`

	// Level is "high", "medium" or "low".
	Level string `json:"level"`
}
