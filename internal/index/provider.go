package index

import (
	"context"
	"time"

	"github.com/starford/raido/internal/backlink"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Provider combines the SQLite index and vault storage into the read
// surface the backlink engine consumes.
type Provider struct {
	db    DocumentIndex
	store storage.Provider
}

// NewProvider creates the composite index provider.
func NewProvider(db DocumentIndex, store storage.Provider) *Provider {
	return &Provider{db: db, store: store}
}

// ResolvedLinks returns the resolved-link adjacency of the index.
func (p *Provider) ResolvedLinks() (map[string][]string, error) {
	resolved, _, err := p.db.LinkSnapshot()
	return resolved, err
}

// UnresolvedLinks returns the unresolved raw-link adjacency of the index.
func (p *Provider) UnresolvedLinks() (map[string][]string, error) {
	_, unresolved, err := p.db.LinkSnapshot()
	return unresolved, err
}

// ListDocuments enumerates every indexed document.
func (p *Provider) ListDocuments() ([]models.DocumentInfo, error) {
	return p.db.Documents()
}

// Aliases returns the front-matter alias list of a document.
func (p *Provider) Aliases(path string) ([]string, error) {
	return p.db.Aliases(path)
}

// ModifiedTime returns the document's on-disk modification time.
func (p *Provider) ModifiedTime(path string) (time.Time, error) {
	return p.store.Stat(path)
}

// ReadContent returns the document's raw Markdown text.
func (p *Provider) ReadContent(_ context.Context, path string) (string, error) {
	data, err := p.store.Read(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Verify Provider satisfies the engine's provider contract at compile time.
var _ backlink.IndexProvider = (*Provider)(nil)
