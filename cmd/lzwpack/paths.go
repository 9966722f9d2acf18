package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resolveArtifacts maps command line arguments onto a disk store root and
// artifact names. Names inside root stay relative to it. Absolute paths and
// paths climbing out of root are allowed when they all share one directory,
// which then becomes the root.
func resolveArtifacts(root string, args []string) (string, []string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	paths := make([]string, len(args))
	inside := true
	for i, arg := range args {
		p := arg
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, p)
		}
		paths[i] = filepath.Clean(p)
		if !within(absRoot, paths[i]) {
			inside = false
		}
	}

	if inside {
		names := make([]string, len(paths))
		for i, p := range paths {
			rel, err := filepath.Rel(absRoot, p)
			if err != nil {
				return "", nil, err
			}
			names[i] = filepath.ToSlash(rel)
		}
		return root, names, nil
	}

	dir := filepath.Dir(paths[0])
	names := make([]string, len(paths))
	for i, p := range paths {
		if filepath.Dir(p) != dir {
			return "", nil, fmt.Errorf("%s and %s are in different directories; pass --root", args[0], args[i])
		}
		names[i] = filepath.Base(p)
	}
	return dir, names, nil
}

// within reports whether p is root or below it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// artifactArgs resolves the positional arguments of a command. Only the
// disk store maps onto the local filesystem; object store names pass
// through unchanged.
func artifactArgs(args []string) ([]string, error) {
	if storeKind != "disk" {
		return args, nil
	}
	root, names, err := resolveArtifacts(rootDir, args)
	if err != nil {
		return nil, err
	}
	rootDir = root
	return names, nil
}
