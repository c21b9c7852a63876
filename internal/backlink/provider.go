// Package backlink implements the backlink discovery, resolution, caching,
// and block-extraction engine for a vault of interlinked Markdown documents.
package backlink

import (
	"context"
	"time"

	"github.com/starford/raido/internal/models"
)

// IndexProvider is the read-only view of the host's document and link index
// that the engine consumes. It is injected, never owned: the engine assumes
// nothing about the storage or event model behind it.
type IndexProvider interface {
	// ResolvedLinks maps each source document to the documents it links to
	// that the index could map unambiguously.
	ResolvedLinks() (map[string][]string, error)
	// UnresolvedLinks maps each source document to the raw link texts the
	// index could not resolve.
	UnresolvedLinks() (map[string][]string, error)
	// ListDocuments enumerates every document known to the index.
	ListDocuments() ([]models.DocumentInfo, error)
	// Aliases returns the front-matter alias list of a document.
	Aliases(path string) ([]string, error)
	// ModifiedTime returns the document's last modification time.
	ModifiedTime(path string) (time.Time, error)
	// ReadContent returns the document's raw Markdown text.
	ReadContent(ctx context.Context, path string) (string, error)
}

// ClassifyFunc reports whether a document path is a daily note. The rule
// lives outside the engine; discovery logic holds no date-pattern knowledge.
type ClassifyFunc func(path string) bool

// Emitter receives a notification after each backlink state update.
type Emitter interface {
	BacklinksUpdated(path string, backlinks []string, origin string)
}
