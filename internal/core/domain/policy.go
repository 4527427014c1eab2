package domain

// PolicyDecision is the outcome of a policy check on a question or a
// generated answer.
type PolicyDecision string

// Policy decisions. Allowed means no rule fired; every other value
// doubles as the flag name surfaced to the caller.
const (
	PolicyAllowed      PolicyDecision = "allowed"
	PolicyBlockedTopic PolicyDecision = "blocked_topic"
	PolicyBlockedRegex PolicyDecision = "blocked_regex"
	PolicyBannedPhrase PolicyDecision = "banned_phrase_detected"
	PolicyLowRelevance PolicyDecision = "low_relevance"
)

// Blocked reports whether the decision withholds the answer.
func (d PolicyDecision) Blocked() bool {
	return d != PolicyAllowed
}

// Flag returns the machine-readable flag recorded for this decision,
// or "" when the decision is allowed.
func (d PolicyDecision) Flag() string {
	if d == PolicyAllowed {
		return ""
	}
	return string(d)
}
