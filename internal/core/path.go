package core

// This file is the path-algebra layer: pure functions that decide whether one
// path is nested inside another. Everything downstream (boundary checks, the
// require wrappers) funnels through IsSameOrSubdirectory.

import (
	"path/filepath"
	"strings"
)

// IsSameOrSubdirectory reports whether candidate is the same path as parent,
// or nested anywhere inside it. This is the membership predicate used by all
// boundary classification.
func IsSameOrSubdirectory(parent, candidate string) bool {
	return samePath(parent, candidate) || IsSubdirectory(parent, candidate)
}

// IsSubdirectory reports whether candidate is strictly nested inside parent.
// Equal paths do not count; use IsSameOrSubdirectory for that.
//
// Both paths are normalized before comparison, and the comparison is done
// segment-wise rather than by string prefix, so /a/b is not considered a
// parent of /a/bc, and /a/b/c is not considered a parent of /a/g/c/d.
func IsSubdirectory(parent, candidate string) bool {
	parentSegments := pathSegments(parent)
	candidateSegments := pathSegments(candidate)

	// A path cannot be nested inside a path with at least as many segments.
	if len(candidateSegments) <= len(parentSegments) {
		return false
	}

	for i, segment := range parentSegments {
		if candidateSegments[i] != segment {
			return false
		}
	}

	return true
}

// pathSegments normalizes a path and splits it into ordered segments.
// Rootedness is preserved as a leading separator segment so absolute and
// relative paths never compare equal.
func pathSegments(path string) []string {
	cleaned := filepath.Clean(path)
	if cleaned == "." {
		return nil
	}

	var segments []string
	if filepath.IsAbs(cleaned) {
		segments = append(segments, string(filepath.Separator))
	}

	for segment := range strings.SplitSeq(cleaned, string(filepath.Separator)) {
		if segment != "" && segment != "." {
			segments = append(segments, segment)
		}
	}

	return segments
}

// samePath reports whether two paths are identical after normalization.
func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
