package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- Migration: {{.Name}} ({{.Dialect}})
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

-- Write your UP migration SQL here

`

const migrationDownTemplate = `-- Migration: {{.Name}} ({{.Dialect}}, rollback)
-- Created: {{.Timestamp}}
-- Description: Rollback for {{.Description}}

-- Write your DOWN migration SQL here

`

// versionWidth pads sequential versions, e.g. 000007
const versionWidth = 6

// MigrationFile is one up/down pair written for a single dialect
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Dialect     string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// Dir returns the migrations directory of a dialect under root
func Dir(root, dialect string) string {
	return filepath.Join(root, dialect)
}

// CreateMigration writes an empty up/down pair for every dialect under root.
// All dialects share the next sequential version so they stay in lockstep.
func CreateMigration(root string, dialects []string, name, description string) ([]MigrationFile, error) {
	if len(dialects) == 0 {
		return nil, fmt.Errorf("at least one dialect is required")
	}
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next := uint64(0)
	for _, d := range dialects {
		v, err := latestVersion(Dir(root, d))
		if err != nil {
			return nil, err
		}
		if v > next {
			next = v
		}
	}
	next++
	version := fmt.Sprintf("%0*d", versionWidth, next)
	timestamp := time.Now().Format(time.RFC3339)

	created := make([]MigrationFile, 0, len(dialects))
	for _, d := range dialects {
		dir := Dir(root, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}
		fileBase := version + "_" + base
		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Description: description,
			Dialect:     d,
			Timestamp:   timestamp,
			UpPath:      filepath.Join(dir, fileBase+".up.sql"),
			DownPath:    filepath.Join(dir, fileBase+".down.sql"),
		}
		if err := createMigrationFile(mf.UpPath, migrationUpTemplate, &mf); err != nil {
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := createMigrationFile(mf.DownPath, migrationDownTemplate, &mf); err != nil {
			_ = os.Remove(mf.UpPath)
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		created = append(created, mf)
	}
	return created, nil
}

func createMigrationFile(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sanitizeName converts a migration name to a safe file name
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	return strings.TrimSuffix(string(result), "_")
}

// ListMigrations returns the base names of the migrations in dir, in version order
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}

func latestVersion(dir string) (uint64, error) {
	names, err := ListMigrations(dir)
	if err != nil {
		return 0, err
	}
	var latest uint64
	for _, n := range names {
		prefix, _, _ := strings.Cut(n, "_")
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if v > latest {
			latest = v
		}
	}
	return latest, nil
}
