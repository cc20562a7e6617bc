package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/marcus/treenav/internal/icons"
	"github.com/marcus/treenav/internal/tree"
)

func TestNew_IconsWithoutProvider(t *testing.T) {
	if _, err := New(true, nil); !errors.Is(err, ErrIconProviderUnavailable) {
		t.Fatalf("New(true, nil) error = %v, want ErrIconProviderUnavailable", err)
	}
	if _, err := New(false, nil); err != nil {
		t.Fatalf("New(false, nil) error = %v, want nil", err)
	}
}

func TestFormat_PlainLines(t *testing.T) {
	f, err := New(false, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		entry tree.Entry
		want  string
	}{
		{"root file", tree.Entry{Name: "a.txt", Kind: tree.KindFile, Depth: 0}, "a.txt"},
		{"root dir", tree.Entry{Name: "sub", Kind: tree.KindDirectory, Depth: 0}, "sub/"},
		{"nested file", tree.Entry{Name: "c.txt", Kind: tree.KindFile, Depth: 2}, "    c.txt"},
		{"nested dir", tree.Entry{Name: "deep", Kind: tree.KindDirectory, Depth: 1}, "  deep/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			f.Format(&e)
			if e.Display != tt.want {
				t.Errorf("Display = %q, want %q", e.Display, tt.want)
			}
			if e.IconOffset != -1 {
				t.Errorf("IconOffset = %d, want -1 without icons", e.IconOffset)
			}
		})
	}
}

func TestFormat_IconLines(t *testing.T) {
	f, err := New(true, icons.NerdFont{})
	if err != nil {
		t.Fatal(err)
	}

	e := tree.Entry{AbsPath: "/r/sub/main.go", Name: "main.go", Kind: tree.KindFile, Depth: 1}
	icon := f.Format(&e)
	if icon.Glyph == "" {
		t.Fatal("Format returned an empty glyph with icons enabled")
	}
	indent := strings.Repeat(IndentUnit, e.Depth)
	if want := indent + icon.Glyph + " main.go"; e.Display != want {
		t.Errorf("Display = %q, want %q", e.Display, want)
	}
	// The glyph starts right after the indent; the render layer colors the
	// byte range [IconOffset, IconOffset+len(Glyph)).
	if e.IconOffset != len(indent) {
		t.Errorf("IconOffset = %d, want %d", e.IconOffset, len(indent))
	}
	if e.Display[e.IconOffset:e.IconOffset+len(icon.Glyph)] != icon.Glyph {
		t.Error("IconOffset does not point at the glyph")
	}

	got, ok := f.Icon(&e)
	if !ok || got != icon {
		t.Errorf("Icon = %v/%v, want %v/true", got, ok, icon)
	}
}

func TestFormat_DisplayResolvesBack(t *testing.T) {
	root := "/r"
	for _, enabled := range []bool{false, true} {
		var provider icons.Provider
		if enabled {
			provider = icons.NerdFont{}
		}
		f, err := New(enabled, provider)
		if err != nil {
			t.Fatal(err)
		}

		snap := &tree.Snapshot{Root: root, DepthLimit: 2, Entries: []tree.Entry{
			{AbsPath: "/r/sub", Name: "sub", Kind: tree.KindDirectory, Depth: 0},
			{AbsPath: "/r/sub/c.txt", Name: "c.txt", Kind: tree.KindFile, Depth: 1},
			{AbsPath: "/r/a.txt", Name: "a.txt", Kind: tree.KindFile, Depth: 0},
		}}
		f.FormatSnapshot(snap)

		// A formatted line still identifies its entry: decoration never
		// destroys the path information ResolveLine needs.
		for i := range snap.Entries {
			e := &snap.Entries[i]
			shown := e.Name
			if e.Kind == tree.KindDirectory {
				shown += "/"
			}
			rel := "./" + strings.TrimPrefix(e.AbsPath, root+"/")
			resolved, err := tree.ResolveLine(strings.Replace(e.Display, shown, rel, 1), root)
			if err != nil {
				t.Fatalf("icons=%v: ResolveLine(%q) failed: %v", enabled, e.Display, err)
			}
			if resolved.AbsPath != e.AbsPath {
				t.Errorf("icons=%v: resolved %s, want %s", enabled, resolved.AbsPath, e.AbsPath)
			}
			if resolved.Depth != e.Depth {
				t.Errorf("icons=%v: %s resolved to depth %d, want %d", enabled, e.Name, resolved.Depth, e.Depth)
			}
		}
	}
}

func TestWidth(t *testing.T) {
	snap := &tree.Snapshot{Entries: []tree.Entry{
		{Display: "a.txt"},
		{Display: "  longer-name.txt"},
		{Display: "日本語.md"}, // double-width runes count as two columns
	}}
	if got := Width(snap); got != 17 {
		t.Errorf("Width = %d, want 17", got)
	}
	if got := Width(&tree.Snapshot{}); got != 0 {
		t.Errorf("Width of empty snapshot = %d, want 0", got)
	}
}
