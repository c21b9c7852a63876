package index

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{
		Path:      "folder/hello.md",
		Title:     "Hello World",
		Aliases:   []string{"hi"},
		Checksum:  "abc123",
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertDocument(row, []string{"other"}); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	cs, err := db.GetChecksum("folder/hello.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}

	// Missing path yields empty checksum, no error.
	if cs, _ := db.GetChecksum("nope.md"); cs != "" {
		t.Errorf("missing checksum = %q", cs)
	}
}

func TestDocumentsEnumeration(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "b/note.md", UpdatedAt: time.Now()}, nil)
	_ = db.UpsertDocument(DocumentRow{Path: "a.md", UpdatedAt: time.Now()}, nil)

	docs, err := db.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("documents = %d, want 2", len(docs))
	}
	// Ordered by path.
	if docs[0].Path != "a.md" || docs[1].Path != "b/note.md" {
		t.Errorf("order = %v", docs)
	}
	if docs[1].BaseName != "note" || docs[1].FullName != "note.md" {
		t.Errorf("names = %+v", docs[1])
	}
}

func TestAliases(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{
		Path:      "ci.md",
		Aliases:   []string{"CI", "pipeline"},
		UpdatedAt: time.Now(),
	}, nil)

	aliases, err := db.Aliases("ci.md")
	if err != nil {
		t.Fatalf("Aliases: %v", err)
	}
	if len(aliases) != 2 || aliases[0] != "CI" {
		t.Errorf("aliases = %v", aliases)
	}

	// Missing document: no aliases, no error.
	if aliases, err := db.Aliases("nope.md"); err != nil || aliases != nil {
		t.Errorf("missing aliases = %v, %v", aliases, err)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "del.md", Checksum: "x", UpdatedAt: time.Now()}, []string{"target"})

	if err := db.DeleteDocument("del.md"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if cs, _ := db.GetChecksum("del.md"); cs != "" {
		t.Errorf("checksum after delete = %q", cs)
	}

	var links int
	_ = db.conn.QueryRow(`SELECT count(*) FROM links WHERE source = ?`, "del.md").Scan(&links)
	if links != 0 {
		t.Errorf("links after delete = %d", links)
	}
}

func TestUpsertReplacesLinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "a.md", UpdatedAt: time.Now()}, []string{"old"})
	_ = db.UpsertDocument(DocumentRow{Path: "a.md", UpdatedAt: time.Now()}, []string{"new"})

	var target string
	if err := db.conn.QueryRow(`SELECT target_raw FROM links WHERE source = ?`, "a.md").Scan(&target); err != nil {
		t.Fatalf("link query: %v", err)
	}
	if target != "new" {
		t.Errorf("target = %q, want new", target)
	}
}

func TestLinkSnapshotClassification(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertDocument(DocumentRow{Path: "target.md", UpdatedAt: now}, nil)
	_ = db.UpsertDocument(DocumentRow{Path: "a/dup.md", UpdatedAt: now}, nil)
	_ = db.UpsertDocument(DocumentRow{Path: "b/dup.md", UpdatedAt: now}, nil)
	_ = db.UpsertDocument(DocumentRow{Path: "source.md", UpdatedAt: now},
		[]string{"target", "./target.md#Section", "dup", "ghost", "a/dup"})

	resolved, unresolved, err := db.LinkSnapshot()
	if err != nil {
		t.Fatalf("LinkSnapshot: %v", err)
	}

	res := resolved["source.md"]
	// "target" and "./target.md#Section" both normalize onto target.md;
	// "a/dup" resolves by path with ".md" appended.
	wantResolved := map[string]int{"target.md": 2, "a/dup.md": 1}
	gotResolved := make(map[string]int)
	for _, r := range res {
		gotResolved[r]++
	}
	for k, v := range wantResolved {
		if gotResolved[k] != v {
			t.Errorf("resolved[%q] = %d, want %d (all: %v)", k, gotResolved[k], v, res)
		}
	}

	// "dup" is ambiguous across two base names, "ghost" matches nothing.
	unres := unresolved["source.md"]
	if len(unres) != 2 {
		t.Errorf("unresolved = %v, want [dup ghost]", unres)
	}
}

func TestSyncIndexesAndPrunes(t *testing.T) {
	db := testDB(t)
	vault := t.TempDir()
	store, err := storage.NewFS(vault)
	if err != nil {
		t.Fatal(err)
	}

	write := func(rel, content string) {
		full := filepath.Join(vault, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("a.md", "---\ntitle: A\naliases:\n  - alpha\n---\nlinks [[b]]")
	write("sub/b.md", "# B\nplain")

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	docs, _ := db.Documents()
	if len(docs) != 2 {
		t.Fatalf("documents after sync = %d, want 2", len(docs))
	}
	if aliases, _ := db.Aliases("a.md"); len(aliases) != 1 || aliases[0] != "alpha" {
		t.Errorf("aliases = %v", aliases)
	}

	resolved, _, err := db.LinkSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if res := resolved["a.md"]; len(res) != 1 || res[0] != "sub/b.md" {
		t.Errorf("resolved = %v, want [sub/b.md]", res)
	}

	// Deleted files are pruned on the next sync.
	if err := os.Remove(filepath.Join(vault, "a.md")); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	docs, _ = db.Documents()
	if len(docs) != 1 || docs[0].Path != "sub/b.md" {
		t.Errorf("documents after prune = %v", docs)
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	db := testDB(t)
	vault := t.TempDir()
	store, _ := storage.NewFS(vault)
	if err := os.WriteFile(filepath.Join(vault, "a.md"), []byte("stable"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}
	before, _ := db.GetChecksum("a.md")

	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}
	after, _ := db.GetChecksum("a.md")
	if before == "" || before != after {
		t.Errorf("checksum changed on unchanged file: %q vs %q", before, after)
	}
}

func TestProviderSurface(t *testing.T) {
	db := testDB(t)
	vault := t.TempDir()
	store, _ := storage.NewFS(vault)
	if err := os.WriteFile(filepath.Join(vault, "a.md"), []byte("see [[b]]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vault, "b.md"), []byte("target"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, store, discardLogger()); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(db, store)

	docs, err := p.ListDocuments()
	if err != nil || len(docs) != 2 {
		t.Fatalf("ListDocuments = %v, %v", docs, err)
	}

	resolved, err := p.ResolvedLinks()
	if err != nil {
		t.Fatal(err)
	}
	if res := resolved["a.md"]; len(res) != 1 || res[0] != "b.md" {
		t.Errorf("resolved = %v", res)
	}

	if _, err := p.ModifiedTime("a.md"); err != nil {
		t.Errorf("ModifiedTime: %v", err)
	}

	content, err := p.ReadContent(context.Background(), "a.md")
	if err != nil || content != "see [[b]]" {
		t.Errorf("ReadContent = %q, %v", content, err)
	}
}
