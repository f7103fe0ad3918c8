package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFile = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks every .sql file in dir: the filename layout, unique
// versions, and both goose annotations. All problems are reported together.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var problems error
	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		match := migrationFile.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, dup := versions[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("duplicate migration version %s in %q and %q", match[1], prev, name))
		}
		versions[match[1]] = name
		problems = multierr.Append(problems, checkAnnotations(filepath.Join(dir, name)))
	}

	if len(versions) == 0 && problems == nil {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return problems
}

func checkAnnotations(path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}
	var problems error
	for _, annotation := range requiredAnnotations {
		if !strings.Contains(string(body), annotation) {
			problems = multierr.Append(problems, fmt.Errorf("migration %q missing %q", filepath.Base(path), annotation))
		}
	}
	return problems
}
