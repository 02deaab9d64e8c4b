package atlas

import "fmt"

// searchURL follows the site routing scheme /<category>/<type-plural>/<slug>.
func searchURL(plural, itemSlug string) string {
	return fmt.Sprintf("/atlas/%s/%s", plural, itemSlug)
}

// SearchItems flattens the graph into the read-only corpus the search
// index is built over. The index never sees the richer source records.
func (g *Graph) SearchItems() []SearchItem {
	items := make([]SearchItem, 0, len(g.Elements)+len(g.Processes)+len(g.Diagrams))

	for _, el := range g.Elements {
		var keywords []string
		var related []string
		for _, ref := range el.Processes {
			keywords = append(keywords, ref.Name)
			related = append(related, ref.Slug)
		}
		for _, msg := range el.Messages {
			keywords = append(keywords, msg.MessageType)
			for _, ref := range msg.Processes {
				keywords = append(keywords, ref.Name)
				related = append(related, ref.Slug)
			}
		}
		related = append(related, el.DiagramIDs...)

		items = append(items, SearchItem{
			ID:          el.Slug,
			Type:        TypeElement,
			Title:       el.Name,
			Subtitle:    el.SegmentName,
			Description: el.Description,
			Slug:        el.Slug,
			URL:         searchURL("elements", el.Slug),
			Keywords:    dedupe(keywords),
			RelatedIDs:  dedupe(related),
		})
	}

	for _, p := range g.Processes {
		description := p.Summary
		if description == "" {
			description = p.TriggerQuestion
		}
		keywords := append(append([]string{}, p.Keywords...), p.RelevantLaws...)
		related := append(append([]string{}, p.Elements...), p.DiagramIDs...)

		items = append(items, SearchItem{
			ID:          p.Slug,
			Type:        TypeProcess,
			Title:       p.Name,
			Subtitle:    joinNonEmpty(p.MessageTypes),
			Description: description,
			Slug:        p.Slug,
			URL:         searchURL("processes", p.Slug),
			Keywords:    dedupe(keywords),
			RelatedIDs:  dedupe(related),
		})
	}

	for _, d := range g.Diagrams {
		items = append(items, SearchItem{
			ID:          d.ID,
			Type:        TypeDiagram,
			Title:       d.Title,
			Subtitle:    d.Source,
			Description: d.Description,
			Slug:        d.Slug,
			URL:         searchURL("diagrams", d.Slug),
			RelatedIDs:  dedupe(append([]string{}, d.ProcessSlugs...)),
		})
	}

	return items
}

func joinNonEmpty(values []string) string {
	out := ""
	for _, v := range values {
		if v == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += v
	}
	return out
}
