// Package policy defines the configurable rule set governing the
// pipeline: retrieval tuning, blocked-content rules, banned phrases,
// tracked entity aliases, fallback messages and answer styling.
// The rule data is configuration, not code; defaults here only shape
// the document, they carry no product rules.
package policy

// Retrieval tunes the similarity search and the relevance gate.
type Retrieval struct {
	// K is the number of candidates selected by MMR.
	K int `toml:"k"`

	// FetchK is the wider pool size fetched before MMR selection.
	FetchK int `toml:"fetch_k"`

	// Lambda is the MMR relevance/distinctiveness trade-off in [0,1].
	Lambda float64 `toml:"mmr_lambda"`

	// MaxDistance is the gate's distance ceiling; a candidate within
	// this distance counts as relevant. Smaller = more similar.
	MaxDistance float64 `toml:"max_distance"`

	// LexicalThreshold is the gate's minimum top-candidate lexical
	// overlap score.
	LexicalThreshold float64 `toml:"lexical_threshold"`
}

// Memory bounds conversation history.
type Memory struct {
	// MaxTurns is the number of (question, answer) pairs retained per
	// conversation.
	MaxTurns int `toml:"max_turns"`

	// SummaryMaxChars bounds the context block fed back into
	// retrieval.
	SummaryMaxChars int `toml:"summary_max_chars"`

	// AnswerMaxChars bounds the stored per-turn answer summary.
	AnswerMaxChars int `toml:"answer_max_chars"`
}

// AnswerStyle bounds the structured answer.
type AnswerStyle struct {
	// MaxQuotes truncates the quote list.
	MaxQuotes int `toml:"max_quotes"`

	// MaxReasoningBullets truncates the reasoning outline.
	MaxReasoningBullets int `toml:"max_reasoning_bullets"`
}

// Fallback holds the user-facing messages for withheld answers.
type Fallback struct {
	// OffTopic is returned when retrieval evidence is too weak.
	OffTopic string `toml:"off_topic_message"`

	// OffDomain is returned when the question itself is blocked.
	OffDomain string `toml:"off_domain_message"`

	// LowConfidence is returned when generated output could not be
	// parsed at all.
	LowConfidence string `toml:"low_confidence_message"`
}

// Policy is the complete rule document.
type Policy struct {
	Retrieval   Retrieval   `toml:"retrieval"`
	Memory      Memory      `toml:"memory"`
	AnswerStyle AnswerStyle `toml:"answer_style"`
	Fallback    Fallback    `toml:"fallback"`

	// Disclaimer is attached to every answer.
	Disclaimer string `toml:"disclaimer"`

	// BlockedPatterns are case-insensitive regular expressions matched
	// against questions and retrieved chunk text; first match wins.
	BlockedPatterns []string `toml:"blocked_patterns"`

	// BlockedTopics are keywords matched as substrings against
	// questions, after the pattern rules.
	BlockedTopics []string `toml:"blocked_topics"`

	// BannedPhrases are case-insensitive regular expressions matched
	// against generated answers and quotes; any match redacts the
	// answer.
	BannedPhrases []string `toml:"banned_phrases"`

	// EntityAliases maps a canonical tracked-entity name to its
	// variants. Used for query normalization, candidate front-loading
	// and the gate's entity override.
	EntityAliases map[string][]string `toml:"entity_aliases"`
}

// Default returns the baseline policy document. Rule lists are empty:
// the exact blocked/banned content is product policy supplied via
// configuration.
func Default() Policy {
	return Policy{
		Retrieval: Retrieval{
			K:                6,
			FetchK:           64,
			Lambda:           0.5,
			MaxDistance:      1.0,
			LexicalThreshold: 0.12,
		},
		Memory: Memory{
			MaxTurns:        8,
			SummaryMaxChars: 800,
			AnswerMaxChars:  2000,
		},
		AnswerStyle: AnswerStyle{
			MaxQuotes:           6,
			MaxReasoningBullets: 5,
		},
		Fallback: Fallback{
			OffTopic:      "I don't have enough information in the available documents to answer this question confidently.",
			OffDomain:     "This question appears to be outside the scope of the available documents. Please ask about content within the document collection.",
			LowConfidence: "Based on the available documents, I have low confidence in this answer. Please verify with additional sources.",
		},
		Disclaimer:    "This response is generated from the indexed documents and is for informational purposes only. Verify against the original sources.",
		EntityAliases: map[string][]string{},
	}
}
