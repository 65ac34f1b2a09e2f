// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths in
// lexical order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// FirstExisting returns the first of the candidate paths that exists as a
// regular file, together with every other candidate that also exists. An
// empty result means none of them exist.
func FirstExisting(candidates ...string) (string, []string, error) {
	var found []string
	for _, c := range candidates {
		ok, err := IsFile(c)
		if err != nil {
			return "", nil, err
		}
		if ok {
			found = append(found, c)
		}
	}
	if len(found) == 0 {
		return "", nil, nil
	}
	return found[0], found[1:], nil
}
