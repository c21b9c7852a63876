// Package models defines the domain types for Raido.
package models

import "time"

// DocumentInfo identifies a Markdown document in the vault by its three
// addressable names: the vault-relative path, the file name without
// extension, and the full file name.
type DocumentInfo struct {
	Path     string `json:"path"`
	BaseName string `json:"base_name"`
	FullName string `json:"full_name"`
}

// DocumentMeta is the lightweight representation returned by vault listings.
type DocumentMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a raw directed reference from one document to another.
// Target holds the link text exactly as written; whether it resolves to a
// document is decided by the index, not at parse time.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Block is a contiguous span of a source document extracted around a
// backlink occurrence for contextual display.
//
// Content is always exactly the slice of the source text between
// StartOffset and EndOffset; callers own the record and may toggle the
// display flags freely.
type Block struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	SourcePath      string `json:"source_path"`
	StartOffset     int    `json:"start_offset"`
	EndOffset       int    `json:"end_offset"`
	IsCollapsed     bool   `json:"is_collapsed"`
	IsVisible       bool   `json:"is_visible"`
	HasBacklinkLine bool   `json:"has_backlink_line"`
}
