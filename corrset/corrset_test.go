package corrset_test

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calibkit/corrgen/corrset"
)

const sampleSet = `{
	"schema_version": 2,
	"description": "test pog payload",
	"corrections": [
		{
			"name": "jes",
			"description": "jet energy scale",
			"version": 1,
			"inputs": [
				{"name": "pt", "type": "real"},
				{"name": "syst", "type": "string"}
			],
			"output": {"name": "weight", "type": "real"},
			"data": {
				"nodetype": "binning",
				"input": "pt",
				"edges": [0, 30, 100, "inf"],
				"content": [1.05, 1.01, 1.0],
				"flow": "clamp"
			}
		},
		{
			"name": "flat",
			"version": 1,
			"inputs": [{"name": "pt", "type": "real"}],
			"output": {"name": "weight", "type": "real"},
			"data": 1.0
		}
	]
}`

// TestDecode_Set verifies a whole document round-trips into the typed model.
func TestDecode_Set(t *testing.T) {
	set, err := corrset.Decode(strings.NewReader(sampleSet))
	require.NoError(t, err)

	assert.Equal(t, 2, set.SchemaVersion)
	require.Len(t, set.Corrections, 2)
	assert.Equal(t, "jes", set.Corrections[0].Name)
	assert.Equal(t, "jet energy scale", set.Corrections[0].Description)
	require.Len(t, set.Corrections[0].Inputs, 2)
	assert.Equal(t, "string", set.Corrections[0].Inputs[1].Type)
	assert.Equal(t, corrset.KindBinning, set.Corrections[0].Data.Kind())
	assert.Equal(t, corrset.KindValue, set.Corrections[1].Data.Kind())
}

// TestDecode_EmptySet rejects documents without corrections.
func TestDecode_EmptySet(t *testing.T) {
	_, err := corrset.Decode(strings.NewReader(`{"schema_version": 2, "corrections": []}`))
	assert.ErrorIs(t, err, corrset.ErrBadDocument)
}

// TestDecode_MissingData rejects a correction without a content tree.
func TestDecode_MissingData(t *testing.T) {
	_, err := corrset.Decode(strings.NewReader(`{
		"corrections": [{"name": "broken", "inputs": [{"name": "x", "type": "real"}]}]
	}`))
	assert.ErrorIs(t, err, corrset.ErrBadDocument)
}

// TestOpenAuto_Plain reads an uncompressed document from disk.
func TestOpenAuto_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSet), 0o644))

	set, err := corrset.OpenAuto(path)
	require.NoError(t, err)
	assert.Len(t, set.Corrections, 2)
}

// TestOpenAuto_Gzip detects gzip by magic bytes regardless of extension.
func TestOpenAuto_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.json.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleSet))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	set, err := corrset.OpenAuto(path)
	require.NoError(t, err)
	assert.Len(t, set.Corrections, 2, "gzipped document must decode transparently")
}

// TestLookup finds corrections by name and reports absences.
func TestLookup(t *testing.T) {
	set, err := corrset.Decode(strings.NewReader(sampleSet))
	require.NoError(t, err)

	c, ok := set.Lookup("flat")
	require.True(t, ok)
	assert.Equal(t, "flat", c.Name)

	_, ok = set.Lookup("nope")
	assert.False(t, ok)
}
