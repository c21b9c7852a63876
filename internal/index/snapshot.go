package index

import (
	"fmt"

	"github.com/starford/raido/internal/backlink"
	"github.com/starford/raido/internal/models"
)

// LinkSnapshot splits the stored raw links into resolved and unresolved
// adjacency, classified against the current document set.
//
// A raw link is resolved when its normalized form maps unambiguously to a
// known document: by exact path, by path with ".md" appended, or by a base
// name carried by exactly one document. Everything else stays unresolved
// with its original raw text.
func (db *DB) LinkSnapshot() (resolved map[string][]string, unresolved map[string][]string, err error) {
	docs, err := db.Documents()
	if err != nil {
		return nil, nil, err
	}

	byPath := make(map[string]struct{}, len(docs))
	byBase := make(map[string][]string)
	for _, d := range docs {
		byPath[d.Path] = struct{}{}
		byBase[d.BaseName] = append(byBase[d.BaseName], d.Path)
	}

	rows, err := db.conn.Query(`SELECT source, target_raw FROM links ORDER BY source, target_raw`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: link snapshot: %w", err)
	}
	defer rows.Close()

	resolved = make(map[string][]string)
	unresolved = make(map[string][]string)

	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, nil, err
		}

		if target, ok := classifyLink(l.Target, byPath, byBase); ok {
			resolved[l.Source] = append(resolved[l.Source], target)
		} else {
			unresolved[l.Source] = append(unresolved[l.Source], l.Target)
		}
	}
	return resolved, unresolved, rows.Err()
}

func classifyLink(raw string, byPath map[string]struct{}, byBase map[string][]string) (string, bool) {
	n := backlink.NormalizeLinkPath(raw)
	if n == "" {
		return "", false
	}
	if _, ok := byPath[n]; ok {
		return n, true
	}
	if _, ok := byPath[n+".md"]; ok {
		return n + ".md", true
	}
	if paths := byBase[n]; len(paths) == 1 {
		return paths[0], true
	}
	return "", false
}
