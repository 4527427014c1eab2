package domain

// RetrievalCandidate is a chunk paired with its query-time relevance
// signals. Candidates exist only for the duration of one query.
type RetrievalCandidate struct {
	// Chunk is the retrieved unit.
	Chunk Chunk

	// Distance is the similarity-search distance; smaller means more
	// similar. Negative when the retrieval path did not report one.
	Distance float64

	// Lexical is the length-normalized token-overlap score between the
	// question and the chunk text, computed locally during rerank.
	Lexical float64
}
