package migration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ---------------------------------------------------------------------------
// fakeDB — records executed statements and tracks applied migration names
// ---------------------------------------------------------------------------

type fakeDB struct {
	applied  map[string]bool
	executed []string
	execErr  func(sql string) error
}

func newFakeDB() *fakeDB {
	return &fakeDB{applied: map[string]bool{}}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		if err := f.execErr(sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	f.executed = append(f.executed, sql)
	if strings.HasPrefix(sql, "INSERT INTO schema_migrations") && len(args) == 1 {
		f.applied[args[0].(string)] = true
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return fakeRow{exists: f.applied[args[0].(string)]}
}

type fakeRow struct{ exists bool }

func (r fakeRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.exists
	return nil
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"002_b.up.sql":         {Data: []byte("CREATE TABLE b ();")},
		"001_a.up.sql":         {Data: []byte("CREATE TABLE a ();")},
		"000_drop_all.sql":     {Data: []byte("DROP TABLE a; DROP TABLE b;")},
		"000_consolidated.sql": {Data: []byte("CREATE TABLE a (); CREATE TABLE b ();")},
		"README.md":            {Data: []byte("ignored")},
	}
}

func TestRunner_UpFiles_SortedAndFiltered(t *testing.T) {
	r := New(newFakeDB(), testFS())
	files, err := r.UpFiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 || files[0] != "001_a.up.sql" || files[1] != "002_b.up.sql" {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestRunner_Incremental_AppliesPendingOnce(t *testing.T) {
	db := newFakeDB()
	r := New(db, testFS())

	n, err := r.Incremental(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 applied, got %d", n)
	}
	if !db.applied["001_a"] || !db.applied["002_b"] {
		t.Errorf("expected both migrations recorded, got %v", db.applied)
	}

	n, err = r.Incremental(context.Background())
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 applied on second run, got %d", n)
	}
}

func TestRunner_Incremental_StopsOnFailure(t *testing.T) {
	db := newFakeDB()
	db.execErr = func(sql string) error {
		if strings.Contains(sql, "CREATE TABLE b") {
			return errors.New("syntax error")
		}
		return nil
	}
	r := New(db, testFS())

	n, err := r.Incremental(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 {
		t.Errorf("expected 1 applied before failure, got %d", n)
	}
	if db.applied["002_b"] {
		t.Error("failed migration must not be recorded")
	}
}

func TestRunner_Consolidated_MarksAllApplied(t *testing.T) {
	db := newFakeDB()
	r := New(db, testFS())

	if err := r.DropAll(context.Background()); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	n, err := r.Consolidated(context.Background())
	if err != nil {
		t.Fatalf("Consolidated: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 marked, got %d", n)
	}
	if db.executed[0] != "DROP TABLE a; DROP TABLE b;" {
		t.Errorf("expected drop script first, got %q", db.executed[0])
	}

	applied, err := r.Incremental(context.Background())
	if err != nil {
		t.Fatalf("Incremental: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected nothing pending after consolidated, got %d", applied)
	}
}

func TestRunner_Pending(t *testing.T) {
	db := newFakeDB()
	db.applied["001_a"] = true
	r := New(db, testFS())

	pending, err := r.Pending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0] != "002_b" {
		t.Errorf("expected [002_b], got %v", pending)
	}
}
