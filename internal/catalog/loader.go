package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidationError collects schema problems found in a primary input
// document. The document as a whole is rejected; there is no sensible
// default for missing taxonomy data.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d schema issue(s): %s", e.Path, len(e.Issues), strings.Join(e.Issues, "; "))
}

// LoadCatalog reads and validates the element catalog JSON. Missing or
// malformed files are fatal; optional fields inside elements default to
// empty values instead.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading element catalog: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing element catalog %s: %w", path, err)
	}

	cat.normalize()

	if err := cat.validate(path); err != nil {
		return nil, err
	}

	return &cat, nil
}

// LoadProcessDefs reads the process definition JSON. Missing or
// malformed files are fatal.
func LoadProcessDefs(path string) ([]ProcessDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading process definitions: %w", err)
	}

	var defs []ProcessDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing process definitions %s: %w", path, err)
	}

	for i := range defs {
		defs[i].Name = strings.TrimSpace(defs[i].Name)
		if defs[i].SearchKeywords == nil {
			defs[i].SearchKeywords = []string{}
		}
		if defs[i].RelevantLaws == nil {
			defs[i].RelevantLaws = []string{}
		}
	}

	return defs, nil
}

// normalize defaults every optional array/string field so downstream
// code never has to nil-check raw input.
func (c *Catalog) normalize() {
	for i := range c.Elements {
		el := &c.Elements[i]
		el.ID = strings.TrimSpace(el.ID)
		el.ElementName = strings.TrimSpace(el.ElementName)
		if el.Messages == nil {
			el.Messages = []RawMessage{}
		}
		if el.ProcessContext == nil {
			el.ProcessContext = []RawProcessContext{}
		}
		for j := range el.Messages {
			normalizeMessage(&el.Messages[j])
		}
		normalizeContexts(el.ProcessContext)
	}
}

func normalizeMessage(m *RawMessage) {
	if m.CodesUsed == nil {
		m.CodesUsed = []string{}
	}
	if m.ProcessContext == nil {
		m.ProcessContext = []RawProcessContext{}
	}
	normalizeContexts(m.ProcessContext)
}

func normalizeContexts(ctxs []RawProcessContext) {
	for i := range ctxs {
		ctxs[i].ProcessName = strings.TrimSpace(ctxs[i].ProcessName)
		if ctxs[i].RelevantLaws == nil {
			ctxs[i].RelevantLaws = []string{}
		}
		if ctxs[i].Keywords == nil {
			ctxs[i].Keywords = []string{}
		}
	}
}

// validate rejects catalogs whose elements lack the identifier or name
// that slugs and cross-links are derived from.
func (c *Catalog) validate(path string) error {
	var issues []string
	for i, el := range c.Elements {
		if el.ID == "" && el.ElementName == "" {
			issues = append(issues, fmt.Sprintf("elements[%d]: missing both EDIFACT_Element_ID and elementName", i))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Path: path, Issues: issues}
	}
	return nil
}
