package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/atlas/internal/catalog"
)

func TestSearchItemsFlattening(t *testing.T) {
	files := []catalog.DiagramFile{{ID: "E1_01", PUMLPath: "E1_01.puml"}}
	graph := BuildGraph(lieferantenwechselCatalog(), nil, files)

	items := graph.SearchItems()
	require.Len(t, items, 3) // one element, one process, one diagram

	byType := make(map[string]SearchItem)
	for _, item := range items {
		byType[item.Type] = item
	}

	el := byType[TypeElement]
	assert.Equal(t, "Zählpunktbezeichnung", el.Title)
	assert.Equal(t, "LOC", el.Subtitle)
	assert.Equal(t, "/atlas/elements/e1-01-zaehlpunktbezeichnung", el.URL)
	assert.Contains(t, el.Keywords, "Lieferantenwechsel")
	assert.Contains(t, el.RelatedIDs, "lieferantenwechsel")
	assert.Contains(t, el.RelatedIDs, "E1_01")

	p := byType[TypeProcess]
	assert.Equal(t, "Lieferantenwechsel", p.Title)
	assert.Equal(t, "UTILMD", p.Subtitle)
	assert.Equal(t, "/atlas/processes/lieferantenwechsel", p.URL)
	assert.Contains(t, p.Keywords, "StromNZV §14")
	assert.Contains(t, p.RelatedIDs, "e1-01-zaehlpunktbezeichnung")

	d := byType[TypeDiagram]
	assert.Equal(t, "/atlas/diagrams/e1-01", d.URL)
	assert.Equal(t, SourceElements, d.Subtitle)
	assert.Contains(t, d.RelatedIDs, "lieferantenwechsel")
}

func TestSearchItemsProcessDescriptionFallsBackToTrigger(t *testing.T) {
	graph := BuildGraph(&catalog.Catalog{}, []catalog.ProcessDef{
		{Name: "Umzug", TriggerQuestion: "Was passiert beim Umzug?"},
	}, nil)

	items := graph.SearchItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Was passiert beim Umzug?", items[0].Description)
}
