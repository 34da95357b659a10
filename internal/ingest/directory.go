package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type DirStats struct {
	Scanned uint32
	Matched uint32
	Paired  uint32
	Failed  uint32
}

// ScanDirectory walks root and returns every complete pair, sorted by name.
func ScanDirectory(root string, skipHidden bool) ([]Pair, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var stats DirStats
	pairer := NewPairer()
	found := map[string]Pair{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, _, ok := SplitPairName(path); !ok {
			return nil
		}
		stats.Matched++
		if pair, ok := pairer.Add(path); ok {
			found[pair.Name] = pair
		}
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}

	pairs := make([]Pair, 0, len(found))
	for _, p := range found {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	stats.Paired = uint32(len(pairs))
	return pairs, stats, nil
}
