package driven

import "context"

// Generator produces raw answer text from a system prompt and a user
// prompt. The capability should return a JSON object matching the
// answer schema, but the core tolerates extra prose before and after
// the object (see the answer parser).
//
// Implementations may include:
//   - OpenAI chat completions
//   - Ollama / local inference servers
type Generator interface {
	// Complete generates a completion for the given prompts.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the model identifier for logging.
	ModelName() string
}
