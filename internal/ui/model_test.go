package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treenav/internal/config"
	"github.com/marcus/treenav/internal/msg"
	"github.com/marcus/treenav/internal/nav"
	"github.com/marcus/treenav/internal/tree"
)

// fixtureRoot builds root/{sub/c.txt, a.txt, b.txt}.
func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	_ = os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644)
	_ = os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0644)
	_ = os.MkdirAll(filepath.Join(root, "sub"), 0755)
	_ = os.WriteFile(filepath.Join(root, "sub", "c.txt"), []byte("c"), 0644)
	return root
}

// pump executes commands synchronously and feeds their messages back into the
// model, the way the program loop would. Toast expiry ticks, quit and editor
// hand-offs are dropped so tests never block on timers or processes.
func pump(t *testing.T, m *Model, cmds ...tea.Cmd) {
	t.Helper()
	queue := cmds
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		switch message := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, message...)
		case tea.QuitMsg:
		case msg.OpenFileMsg:
		case msg.ToastMsg:
			m.Update(message) // installs the toast; drop the expiry tick
		default:
			_, next := m.Update(message)
			queue = append(queue, next)
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press feeds one key and runs whatever it triggered to completion.
func press(t *testing.T, m *Model, k string) {
	t.Helper()
	_, cmd := m.Update(key(k))
	pump(t, m, cmd)
}

func newTestModel(t *testing.T, root, origin string) *Model {
	t.Helper()
	cfg := config.Default()
	cfg.Lister.Strategy = "walk"
	cfg.UI.Watch = false
	cfg.Icons.Enabled = false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m, err := New(cfg, logger, root, origin)
	if err != nil {
		t.Fatal(err)
	}
	pump(t, m, m.Init())
	if m.ctx.State() != nav.StateOpen {
		t.Fatalf("model not open after init, state %v", m.ctx.State())
	}
	return m
}

func entryNames(snap *tree.Snapshot) []string {
	names := make([]string, 0, snap.Len())
	for i := range snap.Entries {
		names = append(names, snap.Entries[i].Name)
	}
	return names
}

func TestModel_InitListsRoot(t *testing.T) {
	root := fixtureRoot(t)
	m := newTestModel(t, root, filepath.Join(root, "b.txt"))

	snap := m.ctx.Snapshot()
	want := []string{"sub", "a.txt", "b.txt"}
	got := entryNames(snap)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2: the origin document", m.cursor)
	}
}

func TestModel_CursorMotion(t *testing.T) {
	m := newTestModel(t, fixtureRoot(t), "")

	press(t, m, "j")
	press(t, m, "j")
	if m.cursor != 2 {
		t.Fatalf("cursor = %d after jj, want 2", m.cursor)
	}
	press(t, m, "j") // clamped at the last line
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want clamp at 2", m.cursor)
	}
	press(t, m, "k")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after k, want 1", m.cursor)
	}
	press(t, m, "g")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after g, want 0", m.cursor)
	}
	press(t, m, "G")
	if m.cursor != 2 {
		t.Fatalf("cursor = %d after G, want 2", m.cursor)
	}
}

func TestModel_DescendAndAscend(t *testing.T) {
	root := fixtureRoot(t)
	m := newTestModel(t, root, "")

	// Cursor starts on sub, the only directory.
	press(t, m, "l")
	if got, want := m.ctx.Root(), filepath.Join(root, "sub"); got != want {
		t.Fatalf("root = %s after descend, want %s", got, want)
	}
	if got := entryNames(m.ctx.Snapshot()); len(got) != 1 || got[0] != "c.txt" {
		t.Fatalf("entries = %v, want [c.txt]", got)
	}

	press(t, m, "h")
	if m.ctx.Root() != root {
		t.Fatalf("root = %s after ascend, want %s", m.ctx.Root(), root)
	}
	// The subtree the view came from is back under the cursor.
	if e := m.ctx.Snapshot().At(m.cursor); e == nil || e.Name != "sub" {
		t.Errorf("cursor entry = %v, want sub", e)
	}
}

func TestModel_DepthRoundTripKeepsCursor(t *testing.T) {
	m := newTestModel(t, fixtureRoot(t), "")

	press(t, m, "j") // a.txt
	press(t, m, "L")
	if got := entryNames(m.ctx.Snapshot()); len(got) != 4 {
		t.Fatalf("entries = %v, want sub, c.txt, a.txt, b.txt", got)
	}
	if e := m.ctx.Snapshot().At(m.cursor); e == nil || e.Name != "a.txt" {
		t.Fatalf("cursor entry after deepen = %v, want a.txt", e)
	}

	press(t, m, "H")
	if got := entryNames(m.ctx.Snapshot()); len(got) != 3 {
		t.Fatalf("entries = %v after shallow, want 3", got)
	}
	if e := m.ctx.Snapshot().At(m.cursor); e == nil || e.Name != "a.txt" {
		t.Errorf("cursor entry after round trip = %v, want a.txt", e)
	}
}

func TestModel_DecreaseDepthAtFloor(t *testing.T) {
	m := newTestModel(t, fixtureRoot(t), "")
	snap := m.ctx.Snapshot()

	press(t, m, "H")
	if m.ctx.Snapshot() != snap {
		t.Error("a floor bounce must not re-list")
	}
	if m.ctx.DepthLimit() != nav.MinDepth {
		t.Errorf("depth limit = %d, want %d", m.ctx.DepthLimit(), nav.MinDepth)
	}
	if m.toast == "" {
		t.Error("a floor bounce should surface a notice")
	}
}

func TestModel_SelectFile(t *testing.T) {
	root := fixtureRoot(t)
	m := newTestModel(t, root, "")
	m.cursor = 1 // a.txt

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("selecting a file should produce a command")
	}
	opened, ok := cmd().(msg.OpenFileMsg)
	if !ok {
		t.Fatalf("selecting a file produced %T, want OpenFileMsg", cmd())
	}
	if opened.Path != filepath.Join(root, "a.txt") {
		t.Errorf("opened %s", opened.Path)
	}
	if m.ctx.State() != nav.StateOpen || m.ctx.Root() != root {
		t.Error("selecting a file must not change navigation state")
	}
}

func TestModel_Close(t *testing.T) {
	m := newTestModel(t, fixtureRoot(t), "")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("close should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("close produced %T, want QuitMsg", cmd())
	}
	if m.ctx.State() != nav.StateClosed {
		t.Error("context should be closed")
	}
}

func TestModel_StaleChunkDropped(t *testing.T) {
	m := newTestModel(t, fixtureRoot(t), "")
	snap := m.ctx.Snapshot()

	stale := listingChunkMsg{
		Generation: m.inflightGen + 99,
		Chunk: tree.Chunk{
			Root:    "/elsewhere",
			Entries: []tree.Entry{{AbsPath: "/elsewhere/x", Name: "x"}},
			Final:   true,
		},
	}
	_, cmd := m.Update(stale)
	pump(t, m, cmd)
	if m.ctx.Snapshot() != snap {
		t.Error("a stale chunk must never reach the view")
	}
}

func TestModel_ListingFailureKeepsView(t *testing.T) {
	m := newTestModel(t, fixtureRoot(t), "")
	snap := m.ctx.Snapshot()

	m.lister = tree.ListerFunc(func(context.Context, string, tree.Options) (*tree.Snapshot, error) {
		return nil, errors.New("provider exploded")
	})
	press(t, m, "R")

	if m.ctx.State() != nav.StateOpen {
		t.Errorf("state = %v after failure, want open", m.ctx.State())
	}
	if m.ctx.Snapshot() != snap {
		t.Error("a failed re-list must leave the previous listing visible")
	}
	if !m.toastErr || m.toast == "" {
		t.Error("the failure should surface as an error toast")
	}
}

func TestModel_CreatePrompt(t *testing.T) {
	root := fixtureRoot(t)
	m := newTestModel(t, root, "")
	m.cursor = 1 // a.txt, so the prompt targets the root directory

	press(t, m, "a")
	if m.prompt != promptCreate {
		t.Fatalf("prompt = %v, want create", m.prompt)
	}
	for _, r := range "new.txt" {
		press(t, m, string(r))
	}
	press(t, m, "enter")

	if _, err := os.Stat(filepath.Join(root, "new.txt")); err != nil {
		t.Fatalf("created file missing: %v", err)
	}
	if m.ctx.Snapshot().IndexOf(filepath.Join(root, "new.txt")) < 0 {
		t.Error("the re-list after create should include the new file")
	}
	if m.prompt != promptNone {
		t.Error("prompt should be closed")
	}
}

func TestModel_DeletePrompt(t *testing.T) {
	root := fixtureRoot(t)
	m := newTestModel(t, root, "")
	m.cursor = 2 // b.txt

	press(t, m, "d")
	if m.prompt != promptDelete {
		t.Fatalf("prompt = %v, want delete", m.prompt)
	}
	press(t, m, "n")
	if _, err := os.Stat(filepath.Join(root, "b.txt")); err != nil {
		t.Fatal("declining the confirmation must not delete")
	}

	press(t, m, "d")
	press(t, m, "y")
	if _, err := os.Stat(filepath.Join(root, "b.txt")); !os.IsNotExist(err) {
		t.Fatal("confirmed delete should remove the file")
	}
	if m.ctx.Snapshot().IndexOf(filepath.Join(root, "b.txt")) >= 0 {
		t.Error("the re-list after delete should drop the entry")
	}
}

func TestModel_RenamePrompt(t *testing.T) {
	root := fixtureRoot(t)
	m := newTestModel(t, root, "")
	m.cursor = 1 // a.txt

	press(t, m, "r")
	if m.prompt != promptRename {
		t.Fatalf("prompt = %v, want rename", m.prompt)
	}
	if m.promptInput.Value() != "a.txt" {
		t.Errorf("prompt prefill = %q, want a.txt", m.promptInput.Value())
	}
	press(t, m, "esc")
	if m.prompt != promptNone {
		t.Fatal("esc should cancel the prompt")
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); err != nil {
		t.Fatal("a cancelled rename must not touch the file")
	}

	press(t, m, "r")
	for _, r := range "2" {
		press(t, m, string(r))
	}
	press(t, m, "enter")
	if _, err := os.Stat(filepath.Join(root, "a.txt2")); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
}
