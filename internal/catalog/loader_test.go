package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.json", `{
		"generatedAt": "2026-01-01T00:00:00Z",
		"elements": [
			{
				"EDIFACT_Element_ID": "E1:01",
				"elementName": "Zählpunktbezeichnung",
				"segmentName": "LOC",
				"description": "desc",
				"messages": [
					{"messageType": "UTILMD", "isMandatory": true}
				]
			}
		]
	}`)

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Elements, 1)

	el := cat.Elements[0]
	assert.Equal(t, "E1:01", el.ID)
	// Optional fields default to empty values rather than nil.
	assert.NotNil(t, el.ProcessContext)
	require.Len(t, el.Messages, 1)
	assert.NotNil(t, el.Messages[0].CodesUsed)
	assert.NotNil(t, el.Messages[0].ProcessContext)
}

func TestLoadCatalogIgnoresUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.json", `{
		"elements": [{"EDIFACT_Element_ID": "X", "elementName": "Y", "someFutureField": 42}],
		"extra": true
	}`)

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, cat.Elements, 1)
}

func TestLoadCatalogFailsFast(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", `{"elements": [`)
		_, err := LoadCatalog(path)
		assert.Error(t, err)
	})

	t.Run("element without id and name", func(t *testing.T) {
		path := writeFile(t, dir, "invalid.json", `{"elements": [{"description": "nothing else"}]}`)
		_, err := LoadCatalog(path)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Issues, 1)
	})
}

func TestLoadProcessDefs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "defs.json", `[
		{"process_name": " Lieferantenwechsel ", "trigger_question": "Wie?", "search_keywords": ["Wechsel"]},
		{"process_name": "Umzug"}
	]`)

	defs, err := LoadProcessDefs(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Lieferantenwechsel", defs[0].Name)
	assert.Equal(t, []string{"Wechsel"}, defs[0].SearchKeywords)
	assert.NotNil(t, defs[1].SearchKeywords)
	assert.NotNil(t, defs[1].RelevantLaws)
}

func TestLoadProcessDefsFailsFast(t *testing.T) {
	_, err := LoadProcessDefs(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
