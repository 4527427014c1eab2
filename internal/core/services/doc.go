// Package services implements the query-time pipeline: candidate
// retrieval and reranking, relevance gating, policy enforcement,
// answer parsing, confidence scoring and conversation memory, composed
// by the QueryService.
package services
