// Package icons maps listing entries to Nerd Font glyphs and highlight
// colors. It is an optional collaborator: views that enable icons must be
// handed a Provider up front.
package icons

import (
	"path/filepath"
	"strings"

	"github.com/marcus/treenav/internal/tree"
)

// Icon is one glyph plus the highlight it should be drawn with. Highlight is
// a terminal color; empty means the surrounding text style.
type Icon struct {
	Glyph     string
	Highlight string
}

// Provider resolves an icon for an entry.
type Provider interface {
	Lookup(kind tree.EntryKind, absPath string) Icon
}

// Default glyphs (Nerd Font).
const (
	folderGlyph  = "" //
	defaultGlyph = "" //
)

// extIcons maps file extensions to glyph/color pairs.
var extIcons = map[string]Icon{
	".go":   {Glyph: "", Highlight: "81"},  //
	".py":   {Glyph: "", Highlight: "214"}, //
	".js":   {Glyph: "", Highlight: "221"}, //
	".ts":   {Glyph: "", Highlight: "75"},  //
	".tsx":  {Glyph: "", Highlight: "75"},  //
	".jsx":  {Glyph: "", Highlight: "221"}, //
	".rs":   {Glyph: "", Highlight: "208"}, //
	".rb":   {Glyph: "", Highlight: "160"}, //
	".c":    {Glyph: "", Highlight: "111"}, //
	".cpp":  {Glyph: "", Highlight: "111"}, //
	".h":    {Glyph: "", Highlight: "111"}, //
	".lua":  {Glyph: "", Highlight: "74"},  //
	".sh":   {Glyph: "", Highlight: "113"}, //
	".vim":  {Glyph: "", Highlight: "28"},  //
	".md":   {Glyph: "", Highlight: "255"}, //
	".json": {Glyph: "", Highlight: "185"}, //
	".yaml": {Glyph: "", Highlight: "167"}, //
	".yml":  {Glyph: "", Highlight: "167"}, //
	".toml": {Glyph: "", Highlight: "167"}, //
	".html": {Glyph: "", Highlight: "202"}, //
	".css":  {Glyph: "", Highlight: "39"},  //
	".git":  {Glyph: "", Highlight: "202"}, //
	".txt":  {Glyph: "", Highlight: "250"}, //
	".zip":  {Glyph: "", Highlight: "215"}, //
	".png":  {Glyph: "", Highlight: "140"}, //
	".jpg":  {Glyph: "", Highlight: "140"}, //
	".svg":  {Glyph: "", Highlight: "140"}, //
	".pdf":  {Glyph: "", Highlight: "196"}, //
}

// nameIcons matches whole basenames before extensions are consulted.
var nameIcons = map[string]Icon{
	"Makefile":   {Glyph: "", Highlight: "66"},  //
	"Dockerfile": {Glyph: "", Highlight: "39"},  //
	"LICENSE":    {Glyph: "", Highlight: "185"}, //
	"go.mod":     {Glyph: "", Highlight: "81"},  //
	"go.sum":     {Glyph: "", Highlight: "245"}, //
	".gitignore": {Glyph: "", Highlight: "241"}, //
}

// NerdFont is the built-in provider.
type NerdFont struct{}

// Lookup returns the glyph for an entry. Directories share one folder glyph;
// files fall back to a generic document glyph.
func (NerdFont) Lookup(kind tree.EntryKind, absPath string) Icon {
	if kind == tree.KindDirectory {
		return Icon{Glyph: folderGlyph, Highlight: "110"}
	}
	name := filepath.Base(absPath)
	if icon, ok := nameIcons[name]; ok {
		return icon
	}
	if icon, ok := extIcons[strings.ToLower(filepath.Ext(name))]; ok {
		return icon
	}
	return Icon{Glyph: defaultGlyph, Highlight: "250"}
}
