package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CacheDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		ctx := context.Background()
		if err := db.Put(ctx, &Response{URL: "https://example.org/a", StatusCode: 200}); err != nil {
			t.Fatalf("failed to put: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()
		if n, _ := db.Count(ctx); n != 1 {
			t.Errorf("expected 1 response, got %d", n)
		}
	})
}

// TestPutGet tests storing and reading responses.
func TestPutGet(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	const url = "https://www.europarl.europa.eu/doceo/document/PV-9-2024-01-16-VOT_FR.xml"

	got, err := db.Get(ctx, url)
	if err != nil || got != nil {
		t.Fatalf("expected no response, got %v (err=%v)", got, err)
	}

	if err := db.Put(ctx, &Response{URL: url, StatusCode: 200, ContentType: "text/xml", Body: []byte("<votes/>")}); err != nil {
		t.Fatalf("failed to put: %v", err)
	}
	if err := db.Put(ctx, &Response{URL: url, StatusCode: 200, ContentType: "application/xml", Body: []byte("<votes></votes>")}); err != nil {
		t.Fatalf("failed to replace: %v", err)
	}

	got, err = db.Get(ctx, url)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached response")
	}
	if string(got.Body) != "<votes></votes>" || got.ContentType != "application/xml" {
		t.Errorf("expected replaced response, got %q (%s)", got.Body, got.ContentType)
	}
	if got.FetchedAt.IsZero() {
		t.Error("expected fetch time to be set")
	}
	if n, _ := db.Count(ctx); n != 1 {
		t.Errorf("expected 1 response, got %d", n)
	}
}

// TestIsFresh tests cache expiry checks.
func TestIsFresh(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	const url = "https://example.org/doc"

	if fresh, _ := db.IsFresh(ctx, url, time.Hour); fresh {
		t.Error("expected missing response not to be fresh")
	}
	if err := db.Put(ctx, &Response{URL: url, StatusCode: 200}); err != nil {
		t.Fatalf("failed to put: %v", err)
	}
	if fresh, _ := db.IsFresh(ctx, url, time.Hour); !fresh {
		t.Error("expected new response to be fresh")
	}
	if fresh, _ := db.IsFresh(ctx, url, 0); !fresh {
		t.Error("expected zero ttl to never expire")
	}
}

// TestPurge tests removing old responses.
func TestPurge(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	if err := db.Put(ctx, &Response{URL: "https://example.org/a", StatusCode: 200}); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	n, err := db.Purge(ctx, time.Hour)
	if err != nil || n != 0 {
		t.Errorf("expected nothing purged, got %d (err=%v)", n, err)
	}
	n, err = db.Purge(ctx, 0)
	if err != nil || n != 1 {
		t.Errorf("expected 1 purged, got %d (err=%v)", n, err)
	}
}

// TestKey tests cache key derivation.
func TestKey(t *testing.T) {
	t.Parallel()

	a, b := Key("https://example.org/a"), Key("https://example.org/b")
	if a == b {
		t.Error("expected distinct keys")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
	if a != Key("https://example.org/a") {
		t.Error("expected stable key")
	}
}
