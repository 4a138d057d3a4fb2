package legalmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// EnumeratePDFs yields a deterministically ordered (lexicographic,
// case-sensitive by code point) list of PDF paths under root.
func EnumeratePDFs(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths, nil
}

// DocIDFor derives the stable doc_id for path relative to root: the
// relative path with OS directory separators replaced by "__" and the
// ".pdf" suffix (in any letter case, as EnumeratePDFs accepts) removed. Pure and invertible up to the separator
// substitution (a path component containing a literal "__" is
// indistinguishable from a directory boundary, which is an accepted
// limitation shared with the reference implementation).
func DocIDFor(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("doc id for %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if ext := filepath.Ext(rel); strings.EqualFold(ext, ".pdf") {
		rel = strings.TrimSuffix(rel, ext)
	}
	return strings.ReplaceAll(rel, "/", "__"), nil
}
