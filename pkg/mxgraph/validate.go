package mxgraph

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ValidationResult reports structural validity of diagram XML. Valid means
// the document wrapper markers are present; Message carries the reason or any
// non-fatal warnings.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Validate checks that the mandatory wrapper markers of a diagram document
// are present and reports duplicate cell ids as a warning. It operates on the
// raw text so that it can judge model output that is not yet parseable.
func Validate(input string) ValidationResult {
	text := StripFence(input)

	for _, marker := range []string{"<mxfile", "</mxfile>", "<mxGraphModel", "</mxGraphModel>"} {
		if !strings.Contains(text, marker) {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("missing required marker %s", marker),
			}
		}
	}

	msg := "document structure is valid"
	if doc, err := Parse(text); err == nil {
		if dupes := duplicateIDs(doc); len(dupes) > 0 {
			msg = fmt.Sprintf("document structure is valid, but duplicate cell ids found: %s",
				strings.Join(dupes, ", "))
		}
	}
	return ValidationResult{Valid: true, Message: msg}
}

func duplicateIDs(doc *Document) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	dupes := mapset.NewThreadUnsafeSet[string]()
	for _, n := range doc.Nodes {
		if !seen.Add(n.ID) {
			dupes.Add(n.ID)
		}
	}
	for _, e := range doc.Edges {
		if !seen.Add(e.ID) {
			dupes.Add(e.ID)
		}
	}
	out := dupes.ToSlice()
	sort.Strings(out)
	return out
}
