// Command docqa is a citation-grounded question answering CLI for
// document collections.
package main

import (
	"os"

	"github.com/joho/godotenv"

	embopenai "github.com/archivist-labs/docqa/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/archivist-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/archivist-labs/docqa/internal/adapters/driving/cli"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
)

func main() {
	// Optional .env for local development; environment wins.
	_ = godotenv.Load()

	cli.SetCapabilities(newGenerator, newEmbedder)
	cli.Execute()
}

func newGenerator() (driven.Generator, error) {
	return llmopenai.New(llmopenai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("DOCQA_CHAT_MODEL"),
	})
}

func newEmbedder() (driven.EmbeddingService, error) {
	return embopenai.New(embopenai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("DOCQA_EMBEDDING_MODEL"),
	})
}
