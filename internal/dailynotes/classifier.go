// Package dailynotes classifies vault paths as date-based journal entries.
//
// The rule is a pure predicate over the path; discovery logic depends on it
// only through a function value and embeds no date-pattern knowledge.
package dailynotes

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultLayout is the Go time layout a daily note's base name must parse
// with when no layout is configured.
const DefaultLayout = "2006-01-02"

// Classifier decides whether a document path is a daily note.
type Classifier struct {
	folder string // vault-relative folder prefix, "" for anywhere
	layout string
}

// New creates a classifier. folder restricts matches to a vault subfolder
// when non-empty; layout defaults to DefaultLayout.
func New(folder, layout string) *Classifier {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Classifier{
		folder: strings.Trim(folder, "/"),
		layout: layout,
	}
}

// Classify reports whether path is a daily note: under the configured
// folder (when set) with a base name that parses as a date.
func (c *Classifier) Classify(path string) bool {
	if c.folder != "" {
		prefix := c.folder + "/"
		if !strings.HasPrefix(path, prefix) {
			return false
		}
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	_, err := time.Parse(c.layout, name)
	return err == nil
}
