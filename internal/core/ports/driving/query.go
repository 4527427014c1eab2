package driving

import (
	"context"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// QueryService answers natural-language questions against the indexed
// corpus. One call is one independent, sequential pipeline invocation;
// concurrent calls share nothing but conversation memory.
type QueryService interface {
	// Ask runs the full pipeline for one question. Policy and
	// relevance outcomes are returned as fallback results, not errors;
	// only external-capability failures surface as errors.
	Ask(ctx context.Context, question, conversationID string) (domain.QueryResult, error)
}
