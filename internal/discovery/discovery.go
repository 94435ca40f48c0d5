// Package discovery enumerates candidate image files under a directory tree.
package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mtf-batch/internal/imageio"
)

// ErrNoImagesFound is returned when a scan produces zero matches after
// extension and depth filtering.
var ErrNoImagesFound = errors.New("no images found in the specified directory")

// DefaultMaxDepth is the number of path segments beyond the root (including
// the filename) an image may sit at and still be discovered.
const DefaultMaxDepth = 4

// Discover recursively scans rootDir for decodable image files (exact
// extension match, see imageio.IsSupportedFormat) and returns their paths
// deduplicated and sorted lexicographically. The walk itself recurses without
// bound; matches deeper than maxDepth segments beyond rootDir are discarded
// afterwards. Unreadable entries are skipped, not reported: the only error is
// ErrNoImagesFound for an empty result.
func Discover(rootDir string, maxDepth int) ([]string, error) {
	rootDepth := segmentCount(rootDir)

	seen := make(map[string]struct{})
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Permission or I/O problems mean "not discovered", not failure.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !imageio.IsSupportedFormat(d.Name()) {
			return nil
		}
		if segmentCount(path)-rootDepth > maxDepth {
			return nil
		}
		seen[path] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, ErrNoImagesFound
	}
	return paths, nil
}

// segmentCount counts path segments, so depth comparisons work on the same
// footing for the root and for discovered files.
func segmentCount(path string) int {
	cleaned := filepath.Clean(path)
	if cleaned == "." {
		// WalkDir reports children of "." without a "./" prefix.
		return 0
	}
	if cleaned == string(os.PathSeparator) {
		return 1
	}
	return len(strings.Split(cleaned, string(os.PathSeparator)))
}
