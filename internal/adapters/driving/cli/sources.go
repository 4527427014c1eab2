package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/docqa/internal/adapters/driven/storage/sqlite"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [filename]",
	Short: "Remove an ingested document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	sources, err := store.Sources(cmd.Context())
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for _, src := range sources {
		chunks, err := store.ChunksBySource(cmd.Context(), src.Filename)
		if err != nil {
			return err
		}
		cmd.Printf("%s  %d chunks  sha256:%.12s\n", src.Filename, len(chunks), src.SHA256)
	}
	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	if err := store.DeleteSource(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}
