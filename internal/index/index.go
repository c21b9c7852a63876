package index

import (
	"github.com/starford/raido/internal/models"
)

// DocumentIndex defines the interface for index operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type DocumentIndex interface {
	UpsertDocument(d DocumentRow, links []string) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	Documents() ([]models.DocumentInfo, error)
	Aliases(path string) ([]string, error)
	LinkSnapshot() (map[string][]string, map[string][]string, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
