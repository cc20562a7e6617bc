package tree

// EntryKind classifies a listing entry.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
)

// String returns the kind name for logging and errors.
func (k EntryKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is one filesystem node surfaced as a display line.
type Entry struct {
	AbsPath string    // resolved absolute path, unique within a snapshot
	Name    string    // basename
	Kind    EntryKind // fixed at listing time
	Depth   int       // nesting relative to the snapshot root; direct children are 0

	// Display fields are filled in by the formatter, not the lister.
	Display    string // indentation + optional icon glyph + name
	IconOffset int    // byte offset of the icon glyph in Display; -1 when icons are off
}

// Snapshot is one complete ordered listing produced by a single Lister call.
// Entries are in provider pre-order: a directory immediately precedes its
// descendants. The order is what maps a 1-based display line to an entry.
type Snapshot struct {
	Root       string // absolute scan root
	DepthLimit int
	Entries    []Entry
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// At returns the entry for a 0-based line index, or nil if out of range.
func (s *Snapshot) At(i int) *Entry {
	if s == nil || i < 0 || i >= len(s.Entries) {
		return nil
	}
	return &s.Entries[i]
}

// IndexOf returns the 0-based line index of the entry with the given absolute
// path, or -1 if the path is not in the snapshot.
func (s *Snapshot) IndexOf(absPath string) int {
	if s == nil || absPath == "" {
		return -1
	}
	for i := range s.Entries {
		if s.Entries[i].AbsPath == absPath {
			return i
		}
	}
	return -1
}
