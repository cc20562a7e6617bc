package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// relMarker is the prefix the text-mode provider puts in front of every
// path component. It is the only reliable boundary between the branch
// decoration and the path itself.
const relMarker = "./"

// ResolveLine parses one text-mode provider line into an entry. The line is
// branch decoration (box-drawing glyphs and spaces) followed by a
// "./"-prefixed path relative to root. A line without the marker is a hard
// parse error, not a skip: swallowing it would silently shift every later
// line-to-entry mapping.
func ResolveLine(line, root string) (Entry, error) {
	idx := strings.Index(line, relMarker)
	if idx < 0 {
		return Entry{}, fmt.Errorf("%w: no path marker in %q", ErrMalformedEntry, line)
	}

	rel := strings.TrimPrefix(line[idx:], relMarker)
	if rel == "" {
		return Entry{}, fmt.Errorf("%w: empty path in %q", ErrMalformedEntry, line)
	}

	abs := filepath.Join(root, filepath.FromSlash(rel))
	return Entry{
		AbsPath: abs,
		Name:    filepath.Base(abs),
		Kind:    statKind(abs),
		// The provider emits full relative paths, so separators count the
		// nesting level directly. Root's direct children are depth 0.
		Depth: strings.Count(rel, "/"),
	}, nil
}

// statKind classifies a path on disk. Unreadable or vanished entries default
// to File, matching the structured provider's behavior for unknown types.
func statKind(abs string) EntryKind {
	info, err := os.Lstat(abs)
	if err != nil || !info.IsDir() {
		return KindFile
	}
	return KindDirectory
}
