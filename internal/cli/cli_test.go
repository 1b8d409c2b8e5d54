package cli

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAddGetCat_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "collection")
	contentPath := writeFixture(t, dir, "report.zip", "annual report bytes")
	metaPath := writeFixture(t, dir, "meta.yaml", `
source: edinet
source_id: S100TEST
name: S100TEST
format: zip
edinet_code: E12345
`)

	out, err := runCommand(t, "--root", root, "--format", "json", "add", contentPath, "--meta", metaPath)
	require.NoError(t, err, "add output: %s", out)

	var added struct {
		ID   string `json:"id"`
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	sum := sha256.Sum256([]byte("annual report bytes"))
	wantID := "edinet:S100TEST:" + hex.EncodeToString(sum[:])[:8]
	assert.Equal(t, wantID, added.ID)
	assert.Equal(t, "edinet/S100TEST.zip", added.Path)

	out, err = runCommand(t, "--root", root, "--format", "json", "get", added.ID)
	require.NoError(t, err, "get output: %s", out)
	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &meta))
	assert.Equal(t, "edinet", meta["source"])
	assert.Equal(t, "E12345", meta["edinet_code"])

	out, err = runCommand(t, "--root", root, "cat", added.ID)
	require.NoError(t, err)
	assert.Equal(t, "annual report bytes", out)
}

func TestAdd_ChecksumMismatchFails(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "collection")
	contentPath := writeFixture(t, dir, "report.zip", "actual bytes")
	metaPath := writeFixture(t, dir, "meta.yaml", `
source: edinet
source_id: S100TEST
name: S100TEST
checksum: `+hex.EncodeToString(bytes.Repeat([]byte{0xab}, 32))+`
`)

	_, err := runCommand(t, "--root", root, "add", contentPath, "--meta", metaPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err := runCommand(t, "--root", root, "count")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestSearchCountVerify(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "collection")

	for _, fixture := range []struct{ source, sourceID string }{
		{"edinet", "S100A"},
		{"edinet", "S100B"},
		{"edgar", "0001-24"},
	} {
		contentPath := writeFixture(t, dir, fixture.sourceID+".zip", "payload "+fixture.sourceID)
		metaPath := writeFixture(t, dir, fixture.sourceID+".yaml", `
source: `+fixture.source+`
source_id: `+fixture.sourceID+`
name: `+fixture.sourceID+`
format: zip
`)
		out, err := runCommand(t, "--root", root, "add", contentPath, "--meta", metaPath)
		require.NoError(t, err, "add output: %s", out)
	}

	out, err := runCommand(t, "--root", root, "count", "--source", "edinet")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = runCommand(t, "--root", root, "--format", "json", "search", "--source", "edgar")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "edgar", rows[0]["source"])

	out, err = runCommand(t, "--root", root, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "filings:  3")

	out, err = runCommand(t, "--root", root, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "checked 3 filing(s), 0 issue(s)")

	// Corrupt one payload and verify again.
	corrupted := filepath.Join(root, "content", "edinet", "S100A.zip")
	require.NoError(t, os.WriteFile(corrupted, []byte("tampered"), 0o644))

	out, err = runCommand(t, "--root", root, "verify")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "CHECKSUM_DRIFT")
}

func TestGet_NotFound(t *testing.T) {
	root := filepath.Join(t.TempDir(), "collection")

	_, err := runCommand(t, "--root", root, "get", "edinet:MISSING:aa")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRoot_RejectsBadFormat(t *testing.T) {
	_, err := runCommand(t, "--format", "xml", "count")
	assert.Error(t, err)
}

func TestSearch_RejectsBadWhereClause(t *testing.T) {
	root := filepath.Join(t.TempDir(), "collection")

	_, err := runCommand(t, "--root", root, "search", "--where", "novalue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
