package driven

import (
	"context"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// RunRecord is the observability record written after each pipeline
// invocation, including blocked and gated ones.
type RunRecord struct {
	RunID          string              `json:"run_id"`
	ConversationID string              `json:"conversation_id"`
	Timestamp      string              `json:"ts"`
	Question       string              `json:"question"`
	Answer         string              `json:"answer"`
	Sources        []string            `json:"sources"`
	PolicyFlags    []string            `json:"policy_flags"`
	RawOutput      string              `json:"raw_model_output,omitempty"`
	Parsed         domain.ParsedAnswer `json:"json"`
	Confidence     domain.Confidence   `json:"confidence"`
}

// RunLog records pipeline invocations. Optional: the pipeline treats a
// nil RunLog as a no-op and never fails a query over a logging error.
type RunLog interface {
	// Record persists one run record.
	Record(ctx context.Context, rec RunRecord) error
}
