package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/archivist-labs/docqa/internal/assembler"
	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/logger"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [elements.json...]",
	Short: "Assemble parsed document elements into retrieval chunks",
	Long: `Reads one or more element files produced by a document partitioner,
assembles them into chunks and stores the result. A file whose content
hash matches the stored hash is skipped unless --force is given.

An element file is either a JSON array of elements or an object:
  {"filename": "contract.pdf", "elements": [...]}
When the filename field is absent, the input file's base name is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "re-ingest even when the content hash is unchanged")
	rootCmd.AddCommand(ingestCmd)
}

// elementFile is the on-disk ingest input format.
type elementFile struct {
	Filename string                     `json:"filename"`
	Elements []domain.NormalizedElement `json:"elements"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	asm := assembler.New()
	ctx := cmd.Context()

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := decodeElementFile(data, path)
		if err != nil {
			return err
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])

		stored, err := store.SourceHash(ctx, doc.Filename)
		if err == nil && stored == hash && !ingestForce {
			cmd.Printf("Skipped %s (unchanged)\n", doc.Filename)
			continue
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("checking %s: %w", doc.Filename, err)
		}

		src := domain.SourceInfo{Filename: doc.Filename, SHA256: hash}
		chunks := asm.Assemble(doc.Elements, src)
		logger.Info("assembled %d chunks from %s", len(chunks), doc.Filename)

		if err := store.SaveChunks(ctx, src, chunks); err != nil {
			return fmt.Errorf("saving %s: %w", doc.Filename, err)
		}
		cmd.Printf("Ingested %s: %d elements -> %d chunks\n", doc.Filename, len(doc.Elements), len(chunks))
	}

	return nil
}

// decodeElementFile accepts either the wrapped object form or a bare
// element array.
func decodeElementFile(data []byte, path string) (elementFile, error) {
	var doc elementFile
	if err := json.Unmarshal(data, &doc); err != nil {
		var elements []domain.NormalizedElement
		if arrErr := json.Unmarshal(data, &elements); arrErr != nil {
			return elementFile{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		doc.Elements = elements
	}

	if doc.Filename == "" {
		doc.Filename = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if len(doc.Elements) == 0 {
		return elementFile{}, fmt.Errorf("%s contains no elements", path)
	}
	return doc, nil
}
