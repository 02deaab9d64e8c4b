// Package atlas defines the shared data model for the aggregation
// pipeline and builds the cross-linked Element/Process/Diagram graph
// from the raw catalog inputs.
package atlas

import "time"

// ContextReference is a contextual snippet fetched from the external
// vector store and attached to a process for background reading.
type ContextReference struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	URL      string   `json:"url,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ProcessRef is a denormalized pointer to a process, embedded wherever
// a process is referenced from an element or message usage. It caches
// descriptive fields but is not the authoritative process record.
type ProcessRef struct {
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Summary      string   `json:"summary,omitempty"`
	RelevantLaws []string `json:"relevantLaws,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}

// MessageUsage records one message-type context of an element. It is
// owned exclusively by its parent Element.
type MessageUsage struct {
	MessageType string       `json:"messageType"`
	Version     string       `json:"messageVersion,omitempty"`
	Role        string       `json:"roleContext,omitempty"`
	Mandatory   bool         `json:"isMandatory"`
	Codes       []string     `json:"codesUsed,omitempty"`
	Citation    string       `json:"citationSource,omitempty"`
	Description string       `json:"description,omitempty"`
	Processes   []ProcessRef `json:"processes,omitempty"`
}

// Element is a single EDIFACT-style field definition from the domain
// taxonomy. Immutable after construction except for DiagramIDs, which
// is populated as matching diagram files are discovered.
type Element struct {
	ID           string         `json:"id"`
	Slug         string         `json:"slug"`
	Name         string         `json:"name"`
	SegmentName  string         `json:"segmentName"`
	SegmentGroup string         `json:"segmentGroup,omitempty"`
	Code         string         `json:"elementCode,omitempty"`
	Description  string         `json:"description"`
	Messages     []MessageUsage `json:"messages,omitempty"`
	Processes    []ProcessRef   `json:"processes,omitempty"`
	DiagramIDs   []string       `json:"diagramIds,omitempty"`
}

// Process is the authoritative record of a business workflow,
// flattened from a ProcessAccumulator at the end of aggregation.
type Process struct {
	Name            string             `json:"name"`
	Slug            string             `json:"slug"`
	Summary         string             `json:"summary,omitempty"`
	TriggerQuestion string             `json:"triggerQuestion,omitempty"`
	Elements        []string           `json:"elements"`
	Keywords        []string           `json:"keywords,omitempty"`
	RelevantLaws    []string           `json:"relevantLaws,omitempty"`
	MessageTypes    []string           `json:"messageTypes,omitempty"`
	DiagramIDs      []string           `json:"diagramIds,omitempty"`
	References      []ContextReference `json:"references,omitempty"`
}

// Diagram is one rendered visualization artifact. Asset paths are only
// set when the corresponding file was found on disk.
type Diagram struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Source       string   `json:"source"`
	SVGPath      string   `json:"svgPath,omitempty"`
	PNGPath      string   `json:"pngPath,omitempty"`
	PDFPath      string   `json:"pdfPath,omitempty"`
	PUMLPath     string   `json:"pumlPath,omitempty"`
	ProcessSlugs []string `json:"relatedProcessSlugs,omitempty"`
}

// SearchItem is the fully flattened, read-only projection of one
// element, process or diagram that the search index operates on.
type SearchItem struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Slug        string   `json:"slug"`
	URL         string   `json:"url"`
	Keywords    []string `json:"keywords,omitempty"`
	RelatedIDs  []string `json:"relatedIds,omitempty"`
}

// Search item types.
const (
	TypeElement = "element"
	TypeProcess = "process"
	TypeDiagram = "diagram"
)

// Diagram source collections.
const (
	SourceElements = "edifact_elements"
	SourceUML      = "uml_diagrams"
)

// Dataset is the full build output written to dataset.json.
type Dataset struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Elements    []Element `json:"elements"`
	Processes   []Process `json:"processes"`
	Diagrams    []Diagram `json:"diagrams"`
}
