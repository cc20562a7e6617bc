// Package format turns listing entries into display lines.
package format

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/marcus/treenav/internal/icons"
	"github.com/marcus/treenav/internal/tree"
)

// ErrIconProviderUnavailable means icons were requested but no provider was
// supplied. This is fatal at construction: silently dropping the glyph would
// shift the column layout the cursor and highlight logic depend on.
var ErrIconProviderUnavailable = errors.New("icons enabled but no icon provider available")

// IndentUnit is one nesting level of indentation.
const IndentUnit = "  "

// Formatter renders entries. A zero Formatter renders without icons.
type Formatter struct {
	provider icons.Provider
	enabled  bool
}

// New builds a formatter. Enabling icons without a provider is a
// configuration error, not a fallback.
func New(iconsEnabled bool, provider icons.Provider) (*Formatter, error) {
	if iconsEnabled && provider == nil {
		return nil, ErrIconProviderUnavailable
	}
	return &Formatter{provider: provider, enabled: iconsEnabled}, nil
}

// IconsEnabled reports whether this formatter draws icon glyphs.
func (f *Formatter) IconsEnabled() bool { return f.enabled }

// Format fills in the entry's Display and IconOffset. Directories get a
// trailing separator so the two listing strategies render identically.
func (f *Formatter) Format(e *tree.Entry) icons.Icon {
	name := e.Name
	if e.Kind == tree.KindDirectory {
		name += "/"
	}
	indent := strings.Repeat(IndentUnit, e.Depth)

	if !f.enabled {
		e.Display = indent + name
		e.IconOffset = -1
		return icons.Icon{}
	}

	icon := f.provider.Lookup(e.Kind, e.AbsPath)
	e.IconOffset = len(indent)
	e.Display = indent + icon.Glyph + " " + name
	return icon
}

// Icon returns the glyph the entry was formatted with, for render-time
// highlighting. ok is false when icons are disabled.
func (f *Formatter) Icon(e *tree.Entry) (icons.Icon, bool) {
	if !f.enabled || e.IconOffset < 0 {
		return icons.Icon{}, false
	}
	return f.provider.Lookup(e.Kind, e.AbsPath), true
}

// FormatSnapshot formats every entry in place.
func (f *Formatter) FormatSnapshot(s *tree.Snapshot) {
	for i := range s.Entries {
		f.Format(&s.Entries[i])
	}
}

// Width returns the display width of the widest formatted line. The hosting
// view derives its size from this on every re-list; it is never stored.
func Width(s *tree.Snapshot) int {
	w := 0
	for i := range s.Entries {
		if lw := runewidth.StringWidth(s.Entries[i].Display); lw > w {
			w = lw
		}
	}
	return w
}
