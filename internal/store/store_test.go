// ABOUTME: Tests for the SQLite metadata store
// ABOUTME: Covers document CRUD, query log append/read, stats, and reset
package store

import (
	"path/filepath"
	"testing"

	"github.com/nclsec/ctfrag/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDoc(path, hash string) *models.DocumentRecord {
	return &models.DocumentRecord{
		FilePath:   path,
		FileName:   filepath.Base(path),
		FileSize:   1024,
		FileHash:   hash,
		ChunkCount: 3,
		Category:   "crypto",
		Tags:       []string{"rsa", "classic"},
		Notes:      "study notes",
	}
}

func TestUpsert_And_FindByPath(t *testing.T) {
	s := openTestStore(t)

	doc := sampleDoc("/docs/rsa.md", "hash-1")
	if err := s.Upsert(doc); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	got, err := s.FindByPath("/docs/rsa.md")
	if err != nil {
		t.Fatalf("FindByPath() failed: %v", err)
	}
	if got == nil {
		t.Fatal("FindByPath() returned nil for existing document")
	}
	if got.FileName != "rsa.md" {
		t.Errorf("FileName = %s, want rsa.md", got.FileName)
	}
	if got.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3", got.ChunkCount)
	}
	if got.Category != "crypto" {
		t.Errorf("Category = %s, want crypto", got.Category)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "rsa" {
		t.Errorf("Tags = %v, want [rsa classic]", got.Tags)
	}
}

func TestFindByPath_Missing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.FindByPath("/docs/nope.md")
	if err != nil {
		t.Fatalf("FindByPath() failed: %v", err)
	}
	if got != nil {
		t.Errorf("FindByPath() = %+v, want nil", got)
	}
}

func TestFindByHash(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert(sampleDoc("/docs/a.md", "shared-hash")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	got, err := s.FindByHash("shared-hash")
	if err != nil {
		t.Fatalf("FindByHash() failed: %v", err)
	}
	if got == nil {
		t.Fatal("FindByHash() returned nil for existing hash")
	}
	if got.FilePath != "/docs/a.md" {
		t.Errorf("FilePath = %s, want /docs/a.md", got.FilePath)
	}

	missing, err := s.FindByHash("other-hash")
	if err != nil {
		t.Fatalf("FindByHash() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("FindByHash() = %+v, want nil", missing)
	}
}

func TestUpsert_UpdatesExistingPath(t *testing.T) {
	s := openTestStore(t)

	doc := sampleDoc("/docs/a.md", "hash-v1")
	if err := s.Upsert(doc); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	updated := sampleDoc("/docs/a.md", "hash-v2")
	updated.ChunkCount = 7
	if err := s.Upsert(updated); err != nil {
		t.Fatalf("second Upsert() failed: %v", err)
	}

	got, err := s.FindByPath("/docs/a.md")
	if err != nil {
		t.Fatalf("FindByPath() failed: %v", err)
	}
	if got.FileHash != "hash-v2" {
		t.Errorf("FileHash = %s, want hash-v2", got.FileHash)
	}
	if got.ChunkCount != 7 {
		t.Errorf("ChunkCount = %d, want 7", got.ChunkCount)
	}

	docs, err := s.List("", 10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("List() returned %d docs, want 1 (upsert should not duplicate)", len(docs))
	}
}

func TestList_CategoryFilter(t *testing.T) {
	s := openTestStore(t)

	crypto := sampleDoc("/docs/rsa.md", "h1")
	web := sampleDoc("/docs/xss.md", "h2")
	web.Category = "web"
	for _, d := range []*models.DocumentRecord{crypto, web} {
		if err := s.Upsert(d); err != nil {
			t.Fatalf("Upsert() failed: %v", err)
		}
	}

	docs, err := s.List("web", 10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("List(web) returned %d docs, want 1", len(docs))
	}
	if docs[0].FilePath != "/docs/xss.md" {
		t.Errorf("filtered doc = %s, want /docs/xss.md", docs[0].FilePath)
	}

	all, err := s.List("", 10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() returned %d docs, want 2", len(all))
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	doc := sampleDoc("/docs/a.md", "h1")
	if err := s.Upsert(doc); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	got, _ := s.FindByPath("/docs/a.md")
	deleted, err := s.Delete(got.ID)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if !deleted {
		t.Error("Delete() = false, want true")
	}

	missing, _ := s.FindByPath("/docs/a.md")
	if missing != nil {
		t.Error("document still present after delete")
	}

	again, err := s.Delete(got.ID)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if again {
		t.Error("Delete() on missing ID = true, want false")
	}
}

func TestQueryLog_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)

	ok := &models.QueryLogEntry{
		QueryText:       "what is RSA?",
		ResponseText:    "RSA is a public-key cryptosystem.",
		RetrievedChunks: 3,
		ResponseTime:    0.42,
		Success:         true,
	}
	failed := &models.QueryLogEntry{
		QueryText:    "what is AES?",
		Success:      false,
		ErrorMessage: "generation timeout",
	}
	for _, e := range []*models.QueryLogEntry{ok, failed} {
		if err := s.AppendQueryLog(e); err != nil {
			t.Fatalf("AppendQueryLog() failed: %v", err)
		}
	}

	entries, err := s.RecentQueryLogs(10)
	if err != nil {
		t.Fatalf("RecentQueryLogs() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Newest first
	if entries[0].QueryText != "what is AES?" {
		t.Errorf("first entry = %q, want newest query", entries[0].QueryText)
	}
	if entries[0].Success {
		t.Error("failed entry recorded as success")
	}
	if entries[0].ErrorMessage == "" {
		t.Error("failed entry missing error message")
	}
	if entries[1].ResponseText == "" {
		t.Error("successful entry missing response text")
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)

	d1 := sampleDoc("/docs/a.md", "h1")
	d1.ChunkCount = 3
	d2 := sampleDoc("/docs/b.md", "h2")
	d2.ChunkCount = 5
	for _, d := range []*models.DocumentRecord{d1, d2} {
		if err := s.Upsert(d); err != nil {
			t.Fatalf("Upsert() failed: %v", err)
		}
	}
	if err := s.AppendQueryLog(&models.QueryLogEntry{QueryText: "q", Success: true}); err != nil {
		t.Fatalf("AppendQueryLog() failed: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", stats.TotalDocuments)
	}
	if stats.TotalChunks != 8 {
		t.Errorf("TotalChunks = %d, want 8", stats.TotalChunks)
	}
	if stats.TotalQueries != 1 {
		t.Errorf("TotalQueries = %d, want 1", stats.TotalQueries)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert(sampleDoc("/docs/a.md", "h1")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() after reset failed: %v", err)
	}
	if stats.TotalDocuments != 0 {
		t.Errorf("TotalDocuments after reset = %d, want 0", stats.TotalDocuments)
	}

	// Store must be usable after reset
	if err := s.Upsert(sampleDoc("/docs/b.md", "h2")); err != nil {
		t.Fatalf("Upsert() after reset failed: %v", err)
	}
}
