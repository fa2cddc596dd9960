package mxgraph

import "strings"

// StripFence removes surrounding Markdown code-fence markup from model
// output. Handles bare ``` fences and language-tagged ones like ```xml, and
// leaves unfenced input untouched.
func StripFence(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	// Drop the language tag on the opening fence line, if any.
	if idx := strings.Index(out, "\n"); idx >= 0 {
		first := strings.TrimSpace(out[:idx])
		if first == "" || isFenceTag(first) {
			out = out[idx+1:]
		}
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
