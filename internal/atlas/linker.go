package atlas

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/julianshen/atlas/internal/catalog"
	"github.com/julianshen/atlas/internal/slug"
)

// Graph is the fully cross-linked result of the aggregation pass.
type Graph struct {
	Elements  []Element
	Processes []Process
	Diagrams  []Diagram
}

// linker carries the mutable state of one aggregation pass.
type linker struct {
	accsByName map[string]*ProcessAccumulator
	accsBySlug map[string]*ProcessAccumulator
	diagrams   *catalog.DiagramIndex
}

// BuildGraph cross-links the raw catalog, the process definitions and
// the discovered diagram files into the Element/Process/Diagram graph.
// Process contexts that name no process are skipped for that one
// reference; orphaned diagram and process references are dropped in the
// final cross-reference pass.
func BuildGraph(cat *catalog.Catalog, defs []catalog.ProcessDef, files []catalog.DiagramFile) *Graph {
	l := &linker{
		accsByName: make(map[string]*ProcessAccumulator),
		accsBySlug: make(map[string]*ProcessAccumulator),
		diagrams:   catalog.NewDiagramIndex(files),
	}

	// Seed accumulators from explicit process definitions.
	for _, def := range defs {
		if def.Name == "" {
			continue
		}
		l.resolve(def.Name).SetDefinition(def)
	}

	elements := l.buildElements(cat)
	processes := l.finalizeProcesses(elements, files)
	diagrams := l.buildDiagrams(files, elements, processes)

	return &Graph{Elements: elements, Processes: processes, Diagrams: diagrams}
}

// resolve returns the accumulator for a process name, falling back to
// slug lookup before materializing a new synthesized aggregate.
func (l *linker) resolve(name string) *ProcessAccumulator {
	if acc, ok := l.accsByName[name]; ok {
		return acc
	}
	if acc, ok := l.accsBySlug[slug.Slugify(name)]; ok {
		return acc
	}
	acc := NewProcessAccumulator(name)
	l.accsByName[name] = acc
	l.accsBySlug[acc.slug] = acc
	return acc
}

// buildElements converts raw elements into domain records, linking each
// to its diagrams and merging its process contexts into accumulators.
func (l *linker) buildElements(cat *catalog.Catalog) []Element {
	seenSlugs := make(map[string]bool, len(cat.Elements))
	elements := make([]Element, 0, len(cat.Elements))

	for _, raw := range cat.Elements {
		el := Element{
			ID:           raw.ID,
			Slug:         slug.ForElement(raw.ID, raw.ElementName),
			Name:         raw.ElementName,
			SegmentName:  raw.SegmentName,
			SegmentGroup: raw.SegmentGroup,
			Code:         raw.ElementCode,
			Description:  raw.Description,
			DiagramIDs:   l.diagrams.Match(raw.ID),
		}

		if seenSlugs[el.Slug] {
			log.Printf("WARNING: duplicate element slug %q (element %s)", el.Slug, raw.ID)
		}
		seenSlugs[el.Slug] = true
		if len(el.DiagramIDs) > 1 {
			log.Printf("WARNING: element %s matches %d diagrams: %v", raw.ID, len(el.DiagramIDs), el.DiagramIDs)
		}

		el.Processes = l.mergeContexts(raw.ProcessContext, el.Slug, "", el.DiagramIDs)

		for _, rawMsg := range raw.Messages {
			msg := MessageUsage{
				MessageType: rawMsg.MessageType,
				Version:     rawMsg.MessageVersion,
				Role:        rawMsg.RoleContext,
				Mandatory:   rawMsg.IsMandatory,
				Codes:       rawMsg.CodesUsed,
				Citation:    rawMsg.CitationSource,
				Description: rawMsg.Description,
			}
			msg.Processes = l.mergeContexts(rawMsg.ProcessContext, el.Slug, rawMsg.MessageType, el.DiagramIDs)
			for _, ref := range msg.Processes {
				l.accsBySlug[ref.Slug].MergeKeywords(rawMsg.CodesUsed)
			}
			el.Messages = append(el.Messages, msg)
		}

		elements = append(elements, el)
	}

	return elements
}

// mergeContexts folds a raw process-context list into the accumulators
// and returns the deduplicated refs for embedding in the parent record.
func (l *linker) mergeContexts(ctxs []catalog.RawProcessContext, elementSlug, messageType string, diagramIDs []string) []ProcessRef {
	var refs []ProcessRef
	seen := make(map[string]bool, len(ctxs))

	for _, ctx := range ctxs {
		if ctx.ProcessName == "" {
			continue
		}
		acc := l.resolve(ctx.ProcessName)
		acc.MergeElement(elementSlug)
		acc.MergeKeywords(ctx.Keywords)
		acc.MergeLaws(ctx.RelevantLaws)
		acc.MergeSummary(ctx.Summary)
		acc.MergeDiagrams(diagramIDs)
		if messageType != "" {
			acc.MergeMessageType(messageType)
		}

		if !seen[acc.slug] {
			seen[acc.slug] = true
			refs = append(refs, acc.Ref(ctx))
		}
	}

	return refs
}

// finalizeProcesses flattens all accumulators, sorted by name, and
// drops member references that do not resolve to a real element or a
// discovered diagram.
func (l *linker) finalizeProcesses(elements []Element, files []catalog.DiagramFile) []Process {
	elementSlugs := make(map[string]bool, len(elements))
	for _, el := range elements {
		elementSlugs[el.Slug] = true
	}
	diagramIDs := make(map[string]bool, len(files))
	for _, f := range files {
		diagramIDs[f.ID] = true
	}

	processes := make([]Process, 0, len(l.accsByName))
	for _, acc := range l.accsByName {
		p := acc.ToProcess()
		p.Elements = filterKnown(p.Elements, elementSlugs)
		p.DiagramIDs = filterKnown(p.DiagramIDs, diagramIDs)
		processes = append(processes, p)
	}

	sort.Slice(processes, func(i, j int) bool { return processes[i].Name < processes[j].Name })
	return processes
}

// buildDiagrams materializes one Diagram per discovered file. Diagrams
// with no matching element fall back to a generic title and description
// from the UML library collection.
func (l *linker) buildDiagrams(files []catalog.DiagramFile, elements []Element, processes []Process) []Diagram {
	elementByDiagram := make(map[string]*Element)
	for i := range elements {
		for _, id := range elements[i].DiagramIDs {
			if _, ok := elementByDiagram[id]; !ok {
				elementByDiagram[id] = &elements[i]
			}
		}
	}

	processSlugs := make(map[string]bool, len(processes))
	slugsByDiagram := make(map[string][]string)
	for _, p := range processes {
		processSlugs[p.Slug] = true
		for _, id := range p.DiagramIDs {
			slugsByDiagram[id] = append(slugsByDiagram[id], p.Slug)
		}
	}

	diagrams := make([]Diagram, 0, len(files))
	for _, f := range files {
		d := Diagram{
			ID:   f.ID,
			Slug: slug.Slugify(f.ID),
		}

		if el, ok := elementByDiagram[f.ID]; ok {
			d.Source = SourceElements
			d.Title = el.Name
			d.Description = fmt.Sprintf("Diagramm zum Datenelement %s (%s).", el.Name, el.ID)
		} else {
			d.Source = SourceUML
			d.Title = humanizeID(f.ID)
			d.Description = "Prozessdiagramm aus der UML-Bibliothek."
		}

		related := append([]string{}, slugsByDiagram[f.ID]...)
		if f.Meta != nil {
			if f.Meta.Title != "" {
				d.Title = f.Meta.Title
			}
			if f.Meta.Description != "" {
				d.Description = f.Meta.Description
			}
			for _, name := range f.Meta.Processes {
				related = append(related, slug.Slugify(name))
			}
		}

		// Orphaned references are silently dropped, not errored.
		sort.Strings(related)
		d.ProcessSlugs = filterKnown(dedupe(related), processSlugs)

		diagrams = append(diagrams, d)
	}

	return diagrams
}

// humanizeID turns a diagram file stem into a displayable title.
func humanizeID(id string) string {
	return strings.Join(strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-'
	}), " ")
}

func filterKnown(values []string, known map[string]bool) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if known[v] {
			kept = append(kept, v)
		}
	}
	return kept
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
