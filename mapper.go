package main

import (
	"path/filepath"
	"strings"
)

// PathKeyMapper translates local relative paths to object keys and back.
// Keys always use forward slashes no matter the native separator, and an
// optional prefix namespaces everything under one part of the bucket.
// ToPath(ToKey(p)) == p for every path ToKey accepts.
type PathKeyMapper struct {
	Prefix string
}

func (m *PathKeyMapper) ToKey(relPath string) (string, error) {
	if err := validateRelPath(relPath); err != nil {
		return "", err
	}

	key := filepath.ToSlash(relPath)
	if m.Prefix != "" {
		key = strings.TrimSuffix(m.Prefix, "/") + "/" + key
	}

	return key, nil
}

func (m *PathKeyMapper) ToPath(key string) (string, error) {
	trimmed := key
	if m.Prefix != "" {
		prefix := strings.TrimSuffix(m.Prefix, "/") + "/"
		if !strings.HasPrefix(key, prefix) {
			return "", &InvalidPathError{Path: key, Reason: "key outside configured prefix"}
		}
		trimmed = strings.TrimPrefix(key, prefix)
	}

	relPath := filepath.FromSlash(trimmed)
	if err := validateRelPath(relPath); err != nil {
		return "", err
	}

	return relPath, nil
}

func validateRelPath(relPath string) error {
	if relPath == "" {
		return &InvalidPathError{Path: relPath, Reason: "empty path"}
	}
	if filepath.IsAbs(relPath) || strings.HasPrefix(relPath, "/") {
		return &InvalidPathError{Path: relPath, Reason: "absolute path"}
	}
	// backslash is a legal filename byte on unix but has no unambiguous
	// representation in a slash-separated key
	if filepath.Separator != '\\' && strings.ContainsRune(relPath, '\\') {
		return &InvalidPathError{Path: relPath, Reason: "backslash not representable in object key"}
	}
	for _, r := range relPath {
		if r < 0x20 || r == 0x7f {
			return &InvalidPathError{Path: relPath, Reason: "control character in path"}
		}
	}
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if segment == "" {
			return &InvalidPathError{Path: relPath, Reason: "empty path segment"}
		}
		if segment == "." || segment == ".." {
			return &InvalidPathError{Path: relPath, Reason: "path escapes sync root"}
		}
	}

	return nil
}
