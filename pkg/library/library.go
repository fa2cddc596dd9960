// Package library manages the persisted style-template catalog backing the
// search_templates and extract_and_save_pattern tools. The catalog is a flat
// JSON mapping from component name to style descriptor plus default geometry.
package library

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"drawmcp/pkg/mxgraph"
)

// Template is one catalog entry: an opaque mxGraph style string and the
// default geometry to draw it with.
type Template struct {
	Style  string `json:"style"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

const (
	defaultWidth  = 80
	defaultHeight = 40
)

// Library is a read-mostly style catalog persisted to a JSON file. Lookups
// within one session treat the catalog as read-only; Put/Save mutate it under
// a lock.
type Library struct {
	path    string
	mu      sync.RWMutex
	entries map[string]Template
}

// Open loads the catalog at path. A missing file yields an empty library, any
// other read or decode failure is returned.
func Open(path string) (*Library, error) {
	lib := &Library{path: path, entries: map[string]Template{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return lib, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read library %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Errorf("library %s is not valid JSON", path)
	}

	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		lib.entries[key.String()] = Template{
			Style:  value.Get("style").String(),
			Width:  int(value.Get("width").Int()),
			Height: int(value.Get("height").Int()),
		}
		return true
	})
	return lib, nil
}

// Search resolves a query against the catalog: exact key match first, then
// case-insensitive substring containment in either direction. Among several
// fuzzy matches the lexicographically first key wins, so results are stable.
// The boolean reports whether anything matched.
func (l *Library) Search(query string) (Template, string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if tpl, ok := l.entries[q]; ok {
		return tpl, q, true
	}

	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		lk := strings.ToLower(k)
		if strings.Contains(lk, q) || strings.Contains(q, lk) {
			return l.entries[k], k, true
		}
	}
	return Template{}, "", false
}

// List returns a copy of the whole catalog.
func (l *Library) List() map[string]Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]Template, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

// Put stores an entry under a lowercased key. Call Save to persist.
func (l *Library) Put(name string, tpl Template) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[strings.ToLower(name)] = tpl
}

// Save writes the catalog back to its file.
func (l *Library) Save() error {
	l.mu.RLock()
	data, err := json.MarshalIndent(l.entries, "", "    ")
	l.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode library")
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write library %s", l.path)
	}
	return nil
}

// Extract harvests style patterns from a parsed document into the catalog and
// returns the keys that were added or updated. patternName "all" takes every
// labeled vertex, keyed by its lowercased label; a specific name takes cells
// whose label contains it. Cells without a style or geometry are skipped.
func (l *Library) Extract(doc *mxgraph.Document, patternName string) []string {
	pattern := strings.ToLower(strings.TrimSpace(patternName))
	if pattern == "" {
		pattern = "all"
	}

	var added []string
	for _, node := range doc.Nodes {
		if node.Style == "" || node.Geometry == nil {
			continue
		}
		label := strings.TrimSpace(node.Value)

		var key string
		switch {
		case pattern == "all" && label != "":
			key = strings.ToLower(label)
		case label != "" && strings.Contains(strings.ToLower(label), pattern):
			key = pattern
		default:
			continue
		}

		l.Put(key, Template{
			Style:  node.Style,
			Width:  intOrDefault(node.Geometry.Width, defaultWidth),
			Height: intOrDefault(node.Geometry.Height, defaultHeight),
		})
		added = append(added, key)
	}
	return added
}

func intOrDefault(v *float64, def int) int {
	if v == nil {
		return def
	}
	return int(*v)
}
