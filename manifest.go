package main

import (
	"sort"
	"time"
)

// ManifestEntry is the normalized record for one file, whether it came from
// a directory walk or a bucket listing. ETag is an md5 hex digest when one
// is known, empty otherwise (multipart uploads, checksums disabled).
type ManifestEntry struct {
	RelPath string
	Size    int64
	ModTime time.Time
	ETag    string
}

// Manifest is one side of the sync keyed by relative path.
type Manifest map[string]ManifestEntry

// Paths returns the relative paths in sorted order so every pass over a
// manifest produces the same log and task ordering.
func (m Manifest) Paths() []string {
	paths := make([]string, 0, len(m))
	for relPath := range m {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	return paths
}
