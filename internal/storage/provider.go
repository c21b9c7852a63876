// Package storage defines the read-only vault file-system abstraction.
//
// Raido never mutates vault documents; the provider surface is deliberately
// limited to listing, reading, and stat'ing.
package storage

import (
	"time"

	"github.com/starford/raido/internal/models"
)

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Stat returns the modification time of the file at path.
	Stat(path string) (time.Time, error)
}
