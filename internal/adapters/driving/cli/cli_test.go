package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "docqa version test-version-1.0.0")
}

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "ask")
	assert.Error(t, err)
}

func TestAskCmd_HasConversationFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("conversation")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestBenchCmd_HasOutputFlag(t *testing.T) {
	flag := benchCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "bench_report.json", flag.DefValue)
}

func TestIngestCmd_HasForceFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func writeElementsFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleElements = `{
	"filename": "contract.pdf",
	"elements": [
		{"element_id": "e1", "kind": "heading", "text": "Termination"},
		{"element_id": "e2", "kind": "body", "text": "Either party may terminate with sixty days written notice.", "page_number": 4}
	]
}`

func TestIngestCmd_IngestsAndSkipsUnchanged(t *testing.T) {
	tmp := t.TempDir()
	path := writeElementsFile(t, tmp, "contract.json", sampleElements)

	out, err := execute(t, "--data-dir", filepath.Join(tmp, "data"), "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested contract.pdf")

	out, err = execute(t, "--data-dir", filepath.Join(tmp, "data"), "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped contract.pdf (unchanged)")

	out, err = execute(t, "--data-dir", filepath.Join(tmp, "data"), "ingest", "--force", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested contract.pdf")
}

func TestIngestCmd_ThenSourcesListsFile(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	path := writeElementsFile(t, tmp, "contract.json", sampleElements)

	_, err := execute(t, "--data-dir", dataDir, "ingest", path)
	require.NoError(t, err)

	out, err := execute(t, "--data-dir", dataDir, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "contract.pdf")

	out, err = execute(t, "--data-dir", dataDir, "sources", "remove", "contract.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed contract.pdf")

	out, err = execute(t, "--data-dir", dataDir, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestIngestCmd_RejectsMissingFile(t *testing.T) {
	tmp := t.TempDir()
	_, err := execute(t, "--data-dir", filepath.Join(tmp, "data"), "ingest", filepath.Join(tmp, "nope.json"))
	assert.Error(t, err)
}

func TestDecodeElementFile_BareArray(t *testing.T) {
	doc, err := decodeElementFile([]byte(`[{"element_id": "e1", "kind": "body", "text": "hello world"}]`), "/tmp/notes.json")
	require.NoError(t, err)
	assert.Equal(t, "notes", doc.Filename)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, domain.ElementBody, doc.Elements[0].Kind)
}

func TestDecodeElementFile_WrappedObject(t *testing.T) {
	doc, err := decodeElementFile([]byte(sampleElements), "/tmp/whatever.json")
	require.NoError(t, err)
	assert.Equal(t, "contract.pdf", doc.Filename)
	assert.Len(t, doc.Elements, 2)
}

func TestDecodeElementFile_Garbage(t *testing.T) {
	_, err := decodeElementFile([]byte("not json"), "/tmp/x.json")
	assert.Error(t, err)
}

func TestDecodeElementFile_Empty(t *testing.T) {
	_, err := decodeElementFile([]byte(`{"filename": "a.pdf", "elements": []}`), "/tmp/a.json")
	assert.Error(t, err)
}
