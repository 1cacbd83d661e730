package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var requiredMarkers = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks that every SQL migration in dir is well named, has a
// unique version and carries both goose markers.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}

	for i, f := range files {
		if i > 0 && files[i-1].Version == f.Version {
			return fmt.Errorf("duplicate migration version %d in %q and %q", f.Version, files[i-1].File, f.File)
		}
		body, err := os.ReadFile(filepath.Join(dir, f.File))
		if err != nil {
			return fmt.Errorf("read migration %q: %w", f.File, err)
		}
		for _, marker := range requiredMarkers {
			if !strings.Contains(string(body), marker) {
				return fmt.Errorf("migration %q missing %q", f.File, marker)
			}
		}
	}
	return nil
}
