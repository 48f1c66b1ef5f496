package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openAll(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sq, err := OpenSQLite(filepath.Join(dir, "db", "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	stores := map[string]Store{
		"file":   fs,
		"sqlite": sq,
		"memory": NewMemoryStore(),
	}

	// Postgres runs only against a database named by the environment.
	if dsn := os.Getenv("TRIPSPOTTER_TEST_POSTGRES"); dsn != "" {
		pg, err := OpenPostgres(dsn)
		if err != nil {
			t.Fatalf("OpenPostgres: %v", err)
		}
		t.Cleanup(func() { pg.Close() })
		if _, err := pg.pool.Exec(context.Background(), `TRUNCATE kv`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		stores["postgres"] = pg
	}
	return stores
}

func TestStoreGetMissing(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("travelPlannerData"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get on empty store: got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set("theme", []byte("dark")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set("theme", []byte("light")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := s.Get("theme")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "light" {
				t.Errorf("Get = %q, want %q", got, "light")
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	type blob struct {
		Favorites []string `json:"favorites"`
	}
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			in := blob{Favorites: []string{"osm_1_node", "osm_2_way"}}
			if err := SaveJSON(s, "travelPlannerData", in); err != nil {
				t.Fatalf("SaveJSON: %v", err)
			}
			var out blob
			if err := LoadJSON(s, "travelPlannerData", &out); err != nil {
				t.Fatalf("LoadJSON: %v", err)
			}
			if len(out.Favorites) != 2 || out.Favorites[1] != "osm_2_way" {
				t.Errorf("LoadJSON = %+v", out)
			}
		})
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../escape", "a/b", ".."} {
		if err := s.Set(key, []byte("x")); err == nil {
			t.Errorf("Set(%q) succeeded, want error", key)
		}
	}
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("theme", []byte("dark")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "theme.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file still present: %v", err)
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("theme", []byte("dark")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get("theme")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "dark" {
		t.Errorf("Get = %q, want dark", got)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open("redis", t.TempDir(), ""); err == nil {
		t.Error("Open(redis) succeeded, want error")
	}
}

func TestOpenPostgresNeedsURL(t *testing.T) {
	if _, err := Open("postgres", t.TempDir(), ""); err == nil {
		t.Error("Open(postgres) without a url succeeded, want error")
	}
}

func TestOpenPostgresBadURL(t *testing.T) {
	if _, err := OpenPostgres("://not a url"); err == nil {
		t.Error("OpenPostgres with a malformed url succeeded")
	}
}
