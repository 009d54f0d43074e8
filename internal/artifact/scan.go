package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scan lists each directory, decodes every entry against the filename
// grammar, and merges the matches into one index. Entries that do not decode
// are skipped silently; a name with candidates from several directories is
// kept with all of them.
func Scan(dirs []string) (Index, error) {
	ix := NewIndex()

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name, tc, ok := Decode(entry.Name())
			if !ok {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", dir, err)
			}
			ix.Add(name, tc, abs)
		}
	}

	return ix, nil
}
