package services

import (
	"fmt"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

const systemPrompt = `You are a careful document analyst. You answer questions strictly from the excerpts provided to you, never from outside knowledge.

Respond with a single JSON object and nothing else, using this shape:
{
  "answer_text": "your answer as plain text",
  "quotes": [{"quote": "verbatim supporting text", "source": "filename", "page": "page number"}],
  "reasoning_outline": ["short bullet", "short bullet"],
  "used_documents": ["filename"],
  "policy_flags": [],
  "disclaimer": null
}

Rules:
- Every factual claim in the answer must be supported by at least one quote.
- Quotes are verbatim spans copied from the excerpts, with their source and page.
- If the excerpts do not answer the question, say so in the answer and return no quotes.
- Never invent sources, pages, or quoted text.
- Leave policy_flags empty unless instructed otherwise.`

// BuildUserPrompt assembles the question, prior conversation context,
// and the numbered excerpts into the generator's user message.
func BuildUserPrompt(question, conversationContext string, candidates []domain.RetrievalCandidate) string {
	var b strings.Builder

	if conversationContext != "" {
		b.WriteString("[Conversation context]\n")
		b.WriteString(conversationContext)
		b.WriteString("\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nExcerpts:\n")
	b.WriteString(formatExcerpts(candidates))

	return b.String()
}

// formatExcerpts renders each candidate as a delimited block carrying
// its provenance. The generator cites from these blocks, so source and
// page must match what the index stores.
func formatExcerpts(candidates []domain.RetrievalCandidate) string {
	var b strings.Builder
	for i, c := range candidates {
		n := i + 1
		fmt.Fprintf(&b, "==== BEGIN EXCERPT %d ====\n", n)
		fmt.Fprintf(&b, "SOURCE: %s%s\n", c.Chunk.Source.Filename, pageSuffix(c.Chunk.Pages))
		b.WriteString("CONTENT:\n")
		b.WriteString(c.Chunk.Text)
		fmt.Fprintf(&b, "\n==== END EXCERPT %d ====\n", n)
	}
	return b.String()
}

func pageSuffix(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	if len(pages) == 1 {
		return fmt.Sprintf(" (page %d)", pages[0])
	}
	return fmt.Sprintf(" (pages %d-%d)", pages[0], pages[len(pages)-1])
}
