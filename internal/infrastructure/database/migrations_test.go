package database

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestMigrationRunner_FilesAreSortedAndParsed(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_add_index.sql":    {Data: []byte("CREATE INDEX x ON t (a);")},
		"migrations/0001_create_table.sql": {Data: []byte("CREATE TABLE t (a INT);")},
		"migrations/README.md":             {Data: []byte("not a migration")},
	}
	runner := NewMigrationRunner(nil, fsys, "migrations")

	files, err := runner.getMigrationFiles()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 migration files, got %d: %v", len(files), files)
	}
	if files[0] != "migrations/0001_create_table.sql" {
		t.Errorf("Expected 0001 first, got %s", files[0])
	}

	migration, err := runner.readMigrationFile(files[0])
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if migration.ID != "0001" {
		t.Errorf("Expected ID 0001, got %s", migration.ID)
	}
	if migration.Description != "create table" {
		t.Errorf("Expected description 'create table', got %q", migration.Description)
	}
}

func TestMigrationRunner_RejectsBadFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/broken.sql": {Data: []byte("SELECT 1;")},
	}
	runner := NewMigrationRunner(nil, fsys, "migrations")

	if _, err := runner.readMigrationFile("migrations/broken.sql"); err == nil {
		t.Fatal("Expected error for filename without id prefix")
	}
}

func TestEmbeddedMigrations_CreateSchema(t *testing.T) {
	runner := NewEmbeddedMigrationRunner(nil)

	files, err := runner.getMigrationFiles()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("Expected at least 2 embedded migrations, got %d", len(files))
	}

	var all strings.Builder
	for _, f := range files {
		m, err := runner.readMigrationFile(f)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f, err)
		}
		all.WriteString(m.SQL)
	}

	sql := all.String()
	for _, want := range []string{
		`"coursesManager".students`,
		`"coursesManager".lectures`,
		`"coursesManager".lecture_sessions`,
		`"coursesManager".student_lecture_sessions`,
		"PRIMARY KEY (student_id, session_id)",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected migrations to contain %q", want)
		}
	}
}
