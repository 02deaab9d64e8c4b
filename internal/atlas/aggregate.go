package atlas

import (
	"sort"
	"strings"

	"github.com/julianshen/atlas/internal/catalog"
	"github.com/julianshen/atlas/internal/slug"
)

// promptPrefixes are German imperative/interrogative verb stems that
// mark a string as an instructional prompt rather than a descriptive
// summary. Upstream context strings are sometimes literal LLM prompts;
// this fixed list filters them without a classifier. Known limitation:
// a valid summary that happens to start with one of these stems is
// rejected too.
var promptPrefixes = []string{
	"beschreibe",
	"erkläre",
	"erläutere",
	"nenne",
	"liste",
	"was",
	"wie",
	"warum",
	"welche",
	"wann",
	"wer",
}

// IsPromptLike reports whether s reads like a question or an
// instructional prompt: it ends in a question mark or starts with a
// flagged verb stem.
func IsPromptLike(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, prefix := range promptPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// PickSummary returns the better of the current summary and a
// candidate. The candidate wins only if it is non-empty, not
// prompt-like, and strictly longer than the current summary (or no
// summary exists yet). A rejected candidate never falls back to
// replacing an empty current value.
func PickSummary(current, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || IsPromptLike(candidate) {
		return current
	}
	if current == "" || len(candidate) > len(current) {
		return candidate
	}
	return current
}

// ProcessAccumulator collects all contributions to one process during
// the aggregation pass. It is build-time only and flattened into an
// immutable Process via ToProcess.
type ProcessAccumulator struct {
	name            string
	slug            string
	defined         bool
	triggerQuestion string
	summary         string
	elements        map[string]struct{}
	keywords        map[string]struct{}
	relevantLaws    map[string]struct{}
	messageTypes    map[string]struct{}
	diagramIDs      map[string]struct{}
}

// NewProcessAccumulator creates an empty accumulator for the named
// process. Processes that only appear via element contexts and were
// never explicitly defined stay with defined == false.
func NewProcessAccumulator(name string) *ProcessAccumulator {
	return &ProcessAccumulator{
		name:         name,
		slug:         slug.Slugify(name),
		elements:     make(map[string]struct{}),
		keywords:     make(map[string]struct{}),
		relevantLaws: make(map[string]struct{}),
		messageTypes: make(map[string]struct{}),
		diagramIDs:   make(map[string]struct{}),
	}
}

// SetDefinition applies an explicit process definition record.
func (a *ProcessAccumulator) SetDefinition(def catalog.ProcessDef) {
	a.defined = true
	a.triggerQuestion = def.TriggerQuestion
	a.MergeKeywords(def.SearchKeywords)
	a.MergeLaws(def.RelevantLaws)
}

// MergeElement records that the element with the given slug
// participates in this process.
func (a *ProcessAccumulator) MergeElement(elementSlug string) {
	if elementSlug != "" {
		a.elements[elementSlug] = struct{}{}
	}
}

// MergeKeywords unions keywords into the accumulator.
func (a *ProcessAccumulator) MergeKeywords(keywords []string) {
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			a.keywords[kw] = struct{}{}
		}
	}
}

// MergeLaws unions legal-basis references into the accumulator.
func (a *ProcessAccumulator) MergeLaws(laws []string) {
	for _, law := range laws {
		if law = strings.TrimSpace(law); law != "" {
			a.relevantLaws[law] = struct{}{}
		}
	}
}

// MergeMessageType records a message type this process is used in.
func (a *ProcessAccumulator) MergeMessageType(messageType string) {
	if messageType = strings.TrimSpace(messageType); messageType != "" {
		a.messageTypes[messageType] = struct{}{}
	}
}

// MergeDiagrams unions diagram IDs into the accumulator.
func (a *ProcessAccumulator) MergeDiagrams(ids []string) {
	for _, id := range ids {
		if id != "" {
			a.diagramIDs[id] = struct{}{}
		}
	}
}

// MergeSummary offers a candidate summary, kept only if it beats the
// current one under PickSummary.
func (a *ProcessAccumulator) MergeSummary(candidate string) {
	a.summary = PickSummary(a.summary, candidate)
}

// Ref returns the denormalized pointer embedded in elements and
// message usages that reference this process.
func (a *ProcessAccumulator) Ref(ctx catalog.RawProcessContext) ProcessRef {
	return ProcessRef{
		Name:         a.name,
		Slug:         a.slug,
		Summary:      strings.TrimSpace(ctx.Summary),
		RelevantLaws: append([]string{}, ctx.RelevantLaws...),
		Keywords:     append([]string{}, ctx.Keywords...),
	}
}

// ToProcess flattens the accumulator into an immutable Process record
// with deterministically sorted member lists.
func (a *ProcessAccumulator) ToProcess() Process {
	return Process{
		Name:            a.name,
		Slug:            a.slug,
		Summary:         a.summary,
		TriggerQuestion: a.triggerQuestion,
		Elements:        sortedKeys(a.elements),
		Keywords:        sortedKeys(a.keywords),
		RelevantLaws:    sortedKeys(a.relevantLaws),
		MessageTypes:    sortedKeys(a.messageTypes),
		DiagramIDs:      sortedKeys(a.diagramIDs),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
