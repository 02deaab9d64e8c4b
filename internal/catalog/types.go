// Package catalog reads the raw taxonomy inputs: the element catalog
// JSON, the process definition JSON and the diagram source directory.
// Input schemas are structural; unknown fields are ignored and listed
// fields may be absent.
package catalog

// RawProcessContext links an element or message usage to a process by
// name, carrying cached descriptive fields from the upstream source.
type RawProcessContext struct {
	ProcessName  string   `json:"processName"`
	Summary      string   `json:"summary"`
	RelevantLaws []string `json:"relevantLaws"`
	Keywords     []string `json:"keywords"`
	Source       string   `json:"source"`
}

// RawMessage is one message-type usage record of a raw element.
type RawMessage struct {
	MessageType    string              `json:"messageType"`
	MessageVersion string              `json:"messageVersion"`
	RoleContext    string              `json:"roleContext"`
	CodesUsed      []string            `json:"codesUsed"`
	IsMandatory    bool                `json:"isMandatory"`
	CitationSource string              `json:"citationSource"`
	Description    string              `json:"description"`
	ProcessContext []RawProcessContext `json:"processContext"`
}

// RawElement is one entry of the element catalog.
type RawElement struct {
	ID             string              `json:"EDIFACT_Element_ID"`
	SegmentName    string              `json:"segmentName"`
	ElementCode    string              `json:"elementCode"`
	ElementName    string              `json:"elementName"`
	SegmentGroup   string              `json:"segmentGroup"`
	Description    string              `json:"description"`
	Messages       []RawMessage        `json:"messages"`
	ProcessContext []RawProcessContext `json:"processContext"`
}

// Catalog is the parsed element catalog document.
type Catalog struct {
	GeneratedAt string       `json:"generatedAt"`
	Elements    []RawElement `json:"elements"`
}

// ProcessDef is one entry of the process definition document.
type ProcessDef struct {
	Name            string   `json:"process_name"`
	TriggerQuestion string   `json:"trigger_question"`
	SearchKeywords  []string `json:"search_keywords"`
	RelevantLaws    []string `json:"relevant_laws"`
}

// DiagramMeta holds optional hand-edited overrides from a
// "<id>.meta.yaml" sidecar next to the diagram source file.
type DiagramMeta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Processes   []string `yaml:"processes"`
}

// DiagramFile describes one discovered diagram source and the sibling
// assets that exist on disk for it.
type DiagramFile struct {
	ID       string
	PUMLPath string
	SVGPath  string
	PNGPath  string
	Meta     *DiagramMeta
}
