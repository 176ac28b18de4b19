package terraform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteBundle materializes a bundle under dir, creating parent
// directories as needed. Artifacts are written in sorted path order and
// the first failure aborts the walk; already-written files are left in
// place for inspection.
func WriteBundle(dir string, bundle Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	for _, path := range bundle.Paths() {
		target := filepath.Join(dir, filepath.FromSlash(path))
		if parent := filepath.Dir(target); parent != dir {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", parent, err)
			}
		}
		mode := os.FileMode(0o644)
		if strings.HasSuffix(path, ".sh") {
			mode = 0o755
		}
		if err := os.WriteFile(target, []byte(bundle[path]), mode); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}
	return nil
}
