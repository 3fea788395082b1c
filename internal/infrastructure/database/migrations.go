package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"lecture-manager/pkg/logger"

	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Migration struct {
	ID          string
	Description string
	SQL         string
	AppliedAt   *time.Time
}

// MigrationRunner applies the numbered .sql files found in dir of fsys,
// each in its own transaction, recording them in schema_migrations.
type MigrationRunner struct {
	db            *gorm.DB
	fsys          fs.FS
	migrationsDir string
}

func NewMigrationRunner(db *gorm.DB, fsys fs.FS, migrationsDir string) *MigrationRunner {
	return &MigrationRunner{
		db:            db,
		fsys:          fsys,
		migrationsDir: migrationsDir,
	}
}

// NewEmbeddedMigrationRunner uses the migrations compiled into the binary
func NewEmbeddedMigrationRunner(db *gorm.DB) *MigrationRunner {
	return NewMigrationRunner(db, migrationFiles, "migrations")
}

func (mr *MigrationRunner) createMigrationsTable() error {
	sql := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id VARCHAR(255) PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	return mr.db.Exec(sql).Error
}

func (mr *MigrationRunner) getAppliedMigrations() (map[string]bool, error) {
	var migrations []Migration
	err := mr.db.Raw("SELECT id FROM schema_migrations ORDER BY id").Scan(&migrations).Error
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool)
	for _, migration := range migrations {
		applied[migration.ID] = true
	}

	return applied, nil
}

func (mr *MigrationRunner) getMigrationFiles() ([]string, error) {
	var files []string

	err := fs.WalkDir(mr.fsys, mr.migrationsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, p)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (mr *MigrationRunner) readMigrationFile(filePath string) (*Migration, error) {
	content, err := fs.ReadFile(mr.fsys, filePath)
	if err != nil {
		return nil, err
	}

	filename := path.Base(filePath)
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration filename format: %s", filename)
	}

	id := parts[0]
	description := strings.TrimSuffix(parts[1], ".sql")
	description = strings.ReplaceAll(description, "_", " ")

	return &Migration{
		ID:          id,
		Description: description,
		SQL:         string(content),
	}, nil
}

// RunMigrations applies pending migrations and returns how many ran
func (mr *MigrationRunner) RunMigrations() (int, error) {
	if err := mr.createMigrationsTable(); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.getAppliedMigrations()
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := mr.getMigrationFiles()
	if err != nil {
		return 0, fmt.Errorf("failed to get migration files: %w", err)
	}

	pendingCount := 0
	for _, file := range files {
		migration, err := mr.readMigrationFile(file)
		if err != nil {
			return pendingCount, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if applied[migration.ID] {
			continue
		}

		err = mr.db.Transaction(func(tx *gorm.DB) error {

			if err := tx.Exec(migration.SQL).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", migration.ID, err)
			}

			if err := tx.Exec("INSERT INTO schema_migrations (id, description) VALUES (?, ?)",
				migration.ID, migration.Description).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", migration.ID, err)
			}

			return nil
		})

		if err != nil {
			return pendingCount, err
		}

		logger.Info("Applied migration: %s - %s", migration.ID, migration.Description)
		pendingCount++
	}

	if pendingCount == 0 {
		logger.Info("No pending migrations to apply")
	}

	return pendingCount, nil
}

func (mr *MigrationRunner) GetMigrationStatus() ([]Migration, error) {
	if err := mr.createMigrationsTable(); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.getAppliedMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := mr.getMigrationFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to get migration files: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		migration, err := mr.readMigrationFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if applied[migration.ID] {

			var appliedAt time.Time
			err := mr.db.Raw("SELECT applied_at FROM schema_migrations WHERE id = ?", migration.ID).Scan(&appliedAt).Error
			if err == nil {
				migration.AppliedAt = &appliedAt
			}
		}

		migrations = append(migrations, *migration)
	}

	return migrations, nil
}
