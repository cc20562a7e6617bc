// Package ui hosts the tree view: one bubbletea model owning a navigation
// context. All state mutation happens on the program goroutine; listings and
// filesystem operations run in commands and come back as messages.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treenav/internal/action"
	"github.com/marcus/treenav/internal/config"
	"github.com/marcus/treenav/internal/format"
	"github.com/marcus/treenav/internal/fsops"
	"github.com/marcus/treenav/internal/icons"
	"github.com/marcus/treenav/internal/keymap"
	"github.com/marcus/treenav/internal/msg"
	"github.com/marcus/treenav/internal/nav"
	"github.com/marcus/treenav/internal/tree"
)

const toastDuration = 2 * time.Second

// promptMode is the active inline prompt, if any.
type promptMode int

const (
	promptNone promptMode = iota
	promptCreate
	promptRename
	promptDelete // confirmation, no text input
)

// Messages produced by the model's own commands.
type (
	// listingChunkMsg carries one chunk of an in-flight listing.
	listingChunkMsg struct {
		Generation uint64
		Chunk      tree.Chunk
	}
	// fsOpDoneMsg reports a create/delete/rename outcome.
	fsOpDoneMsg struct {
		Notice string
		Err    error
	}
	// watchEventMsg reports an external filesystem change under the root.
	watchEventMsg struct{}
	// editorFinishedMsg reports the editor process exiting.
	editorFinishedMsg struct{ Err error }
)

// Model is the tree view.
type Model struct {
	ctx       *nav.Context
	lister    tree.Lister
	formatter *format.Formatter
	keys      *keymap.Registry
	cfg       *config.Config
	logger    *slog.Logger

	root string // initial root, listed on Init

	cursor int
	scroll int
	width  int
	height int

	// In-flight listing state. Entries accumulate per chunk so large trees
	// draw progressively; the snapshot is only installed on the final chunk.
	inflightGen     uint64
	inflightEntries []tree.Entry
	chunks          <-chan tree.Chunk

	// Inline prompt state.
	prompt       promptMode
	promptInput  textinput.Model
	promptTarget string // absolute path the prompt operates on

	// Toast state.
	toast      string
	toastErr   bool
	toastID    int
	watcher    *Watcher
	quitOnOpen bool
}

// New builds the tree view. originPath is the file that was open when the
// view was requested; the cursor falls back to it until navigation begins.
func New(cfg *config.Config, logger *slog.Logger, root, originPath string) (*Model, error) {
	var provider icons.Provider
	if cfg.Icons.Enabled {
		provider = icons.NerdFont{}
	}
	formatter, err := format.New(cfg.Icons.Enabled, provider)
	if err != nil {
		return nil, err
	}

	keys := keymap.NewRegistry()
	if err := keys.ApplyOverrides(cfg.Keymap.Overrides); err != nil {
		return nil, err
	}

	lister, name := buildLister(cfg)
	logger.Debug("tree view ready", "lister", name, "root", root)

	return &Model{
		ctx:        nav.New(originPath, cfg.Icons.Enabled, cfg.Lister.RespectIgnore),
		lister:     lister,
		formatter:  formatter,
		keys:       keys,
		cfg:        cfg,
		logger:     logger,
		root:       root,
		quitOnOpen: cfg.UI.CloseOnSelect,
	}, nil
}

// buildLister picks the listing strategy from config.
func buildLister(cfg *config.Config) (tree.Lister, string) {
	bin := cfg.Lister.TreeBin
	switch cfg.Lister.Strategy {
	case "tree-json":
		return &tree.CommandLister{Bin: bin, Format: tree.FormatJSON}, "tree-json"
	case "tree-text":
		return &tree.CommandLister{Bin: bin, Format: tree.FormatText}, "tree-text"
	case "walk":
		return tree.WalkLister{}, "walk"
	default: // auto
		if bin == "" {
			bin = tree.DetectTreeBin()
		}
		if bin == "" {
			return tree.WalkLister{}, "walk (tree not found)"
		}
		return &tree.CommandLister{Bin: bin, Format: tree.FormatJSON}, "tree-json"
	}
}

// Init opens the view on the initial root.
func (m *Model) Init() tea.Cmd {
	req, err := m.ctx.Open(m.root, m.cfg.Lister.DepthLimit)
	if err != nil {
		return msg.ShowError(err.Error(), toastDuration)
	}
	cmds := []tea.Cmd{m.startListing(req)}
	if m.cfg.UI.Watch {
		cmds = append(cmds, m.startWatcher())
	}
	return tea.Batch(cmds...)
}

// startListing begins a streamed listing for req and pumps its first chunk.
func (m *Model) startListing(req nav.Request) tea.Cmd {
	m.inflightGen = req.Generation
	m.inflightEntries = nil
	opts := tree.Options{DepthLimit: req.DepthLimit, RespectIgnore: req.RespectIgnore}
	m.chunks = tree.ListStream(context.Background(), m.lister, req.Root, opts, m.cfg.Lister.ChunkSize)
	return m.awaitChunk(req.Generation, m.chunks)
}

// awaitChunk blocks in a command goroutine for the next chunk.
func (m *Model) awaitChunk(gen uint64, ch <-chan tree.Chunk) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return listingChunkMsg{Generation: gen, Chunk: c}
	}
}

// startWatcher attaches a filesystem watcher to the current root.
func (m *Model) startWatcher() tea.Cmd {
	return func() tea.Msg {
		w, err := NewWatcher()
		if err != nil {
			m.logger.Error("watcher failed", "err", err)
			return nil
		}
		return watcherStartedMsg{Watcher: w}
	}
}

type watcherStartedMsg struct{ Watcher *Watcher }

// listenForWatchEvents waits for the next debounced filesystem event.
func (m *Model) listenForWatchEvents() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

// Update handles messages.
func (m *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ensureCursorVisible()
		return m, nil

	case listingChunkMsg:
		return m.handleChunk(message)

	case watcherStartedMsg:
		m.watcher = message.Watcher
		m.watcher.Watch(m.ctx.Root())
		return m, m.listenForWatchEvents()

	case watchEventMsg:
		return m, tea.Batch(m.refreshAfterMutation(), m.listenForWatchEvents())

	case fsOpDoneMsg:
		if message.Err != nil {
			m.logger.Error("filesystem operation failed", "err", message.Err)
			return m, msg.ShowError(message.Err.Error(), toastDuration)
		}
		// Success always re-lists so the view reflects the mutation.
		return m, tea.Batch(msg.ShowToast(message.Notice, toastDuration), m.refreshAfterMutation())

	case msg.ToastMsg:
		m.toast = message.Message
		m.toastErr = message.IsError
		m.toastID++
		id := m.toastID
		return m, tea.Tick(message.Duration, func(time.Time) tea.Msg {
			return msg.ToastExpiredMsg{ID: id}
		})

	case msg.ToastExpiredMsg:
		if message.ID == m.toastID {
			m.toast = ""
		}
		return m, nil

	case msg.OpenFileMsg:
		cmd := exec.Command(message.Editor, message.Path)
		return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
			return editorFinishedMsg{Err: err}
		})

	case editorFinishedMsg:
		if message.Err != nil {
			return m, msg.ShowError("editor: "+message.Err.Error(), toastDuration)
		}
		if m.quitOnOpen {
			m.ctx.Close()
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(message)
		}
		return m.handleKey(message)
	}

	return m, nil
}

// handleChunk folds one listing chunk into the view. Stale generations are
// dropped without touching anything; the channel pump stops with them.
func (m *Model) handleChunk(message listingChunkMsg) (tea.Model, tea.Cmd) {
	if message.Generation != m.inflightGen {
		return m, nil
	}
	c := message.Chunk

	if c.Err != nil {
		// The whole listing is discarded; the previous snapshot stays.
		m.inflightEntries = nil
		m.ctx.Fail(message.Generation)
		m.logger.Error("listing failed", "root", c.Root, "err", c.Err)
		return m, msg.ShowError(c.Err.Error(), toastDuration)
	}

	// Format on arrival so the growing display stays aligned.
	for i := range c.Entries {
		m.formatter.Format(&c.Entries[i])
	}
	m.inflightEntries = append(m.inflightEntries, c.Entries...)

	if !c.Final {
		return m, m.awaitChunk(message.Generation, m.chunks)
	}

	snap := &tree.Snapshot{
		Root:       c.Root,
		DepthLimit: c.DepthLimit,
		Entries:    m.inflightEntries,
	}
	m.inflightEntries = nil
	if cursor, ok := m.ctx.Complete(message.Generation, snap); ok {
		m.cursor = cursor
		m.ensureCursorVisible()
		if m.watcher != nil {
			m.watcher.Watch(m.ctx.Root())
		}
	}
	return m, nil
}

// handleKey routes tree-pane keys: cursor movement is handled directly,
// everything else goes through the action registry.
func (m *Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := message.String(); key {
	case "j", "down":
		if m.cursor < m.ctx.Snapshot().Len()-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil
	case "g":
		m.cursor = 0
		m.scroll = 0
		return m, nil
	case "G":
		if n := m.ctx.Snapshot().Len(); n > 0 {
			m.cursor = n - 1
			m.ensureCursorVisible()
		}
		return m, nil
	case "ctrl+d":
		m.moveCursor(m.visibleHeight() / 2)
		return m, nil
	case "ctrl+u":
		m.moveCursor(-m.visibleHeight() / 2)
		return m, nil
	default:
		return m.dispatch(m.keys.Lookup(key))
	}
}

// dispatch maps an action onto a state machine transition or collaborator
// call. The set is closed; unknown keys fall out of the switch unhandled.
func (m *Model) dispatch(kind action.Kind) (tea.Model, tea.Cmd) {
	switch kind {
	case action.CloseTree:
		m.ctx.Close()
		return m, tea.Quit

	case action.Select:
		req, sel, err := m.ctx.Select(m.cursor)
		if err != nil {
			return m, m.notice(err)
		}
		if sel != nil {
			return m, openInEditor(sel.AbsPath)
		}
		return m, m.startListing(req)

	case action.InDir:
		return m.transition(m.ctx.Descend(m.cursor))

	case action.OutDir:
		return m.transition(m.ctx.Ascend())

	case action.IncLevel:
		return m.transition(m.ctx.IncreaseDepth(m.cursor))

	case action.DecLevel:
		return m.transition(m.ctx.DecreaseDepth(m.cursor))

	case action.Refresh:
		return m.transition(m.ctx.Refresh(m.cursor))

	case action.YankAbsPath:
		return m, m.yank(func(e *tree.Entry) (string, error) {
			return e.AbsPath, nil
		})

	case action.YankRelPath:
		return m, m.yank(func(e *tree.Entry) (string, error) {
			return filepath.Rel(m.ctx.Root(), e.AbsPath)
		})

	case action.Create:
		return m.openCreatePrompt()

	case action.Rename:
		return m.openRenamePrompt()

	case action.Delete:
		return m.openDeletePrompt()
	}

	return m, nil
}

// transition starts the listing for a successful transition, or reports the
// rejection as a notice.
func (m *Model) transition(req nav.Request, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m, m.notice(err)
	}
	return m, m.startListing(req)
}

// notice reports a rejected action. Invalid transitions and busy rejections
// are notices, not errors; the state machine did not change.
func (m *Model) notice(err error) tea.Cmd {
	return msg.ShowToast(err.Error(), toastDuration)
}

// yank writes a path derived from the cursor entry to the system clipboard.
func (m *Model) yank(pathOf func(*tree.Entry) (string, error)) tea.Cmd {
	e := m.ctx.Snapshot().At(m.cursor)
	if e == nil {
		return msg.ShowToast("nothing to yank", toastDuration)
	}
	text, err := pathOf(e)
	if err != nil {
		return msg.ShowError(err.Error(), toastDuration)
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return msg.ToastMsg{Message: "clipboard: " + err.Error(), Duration: toastDuration, IsError: true}
		}
		return msg.ToastMsg{Message: "yanked " + text, Duration: toastDuration}
	}
}

// refreshAfterMutation re-lists after a filesystem change. A listing already
// in flight will pick the change up, so busy is not worth a notice here.
func (m *Model) refreshAfterMutation() tea.Cmd {
	req, err := m.ctx.Refresh(m.cursor)
	if err != nil {
		m.logger.Debug("refresh skipped", "err", err)
		return nil
	}
	return m.startListing(req)
}

// openInEditor hands the selected file to $EDITOR.
func openInEditor(path string) tea.Cmd {
	return func() tea.Msg {
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = os.Getenv("VISUAL")
		}
		if editor == "" {
			editor = "vim"
		}
		return msg.OpenFileMsg{Editor: editor, Path: path}
	}
}

// moveCursor shifts the cursor by delta, clamped to the listing.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if n := m.ctx.Snapshot().Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible keeps the cursor inside the scroll window.
func (m *Model) ensureCursorVisible() {
	h := m.visibleHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// Stop releases background resources. Called by the host after the program
// exits.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// currentDir returns the directory the prompt-based operations act in: the
// cursor entry itself when it is a directory, its parent when it is a file,
// the root when the listing is empty.
func (m *Model) currentDir() string {
	e := m.ctx.Snapshot().At(m.cursor)
	if e == nil {
		return m.ctx.Root()
	}
	if e.Kind == tree.KindDirectory {
		return e.AbsPath
	}
	return filepath.Dir(e.AbsPath)
}

// openCreatePrompt starts the create prompt. A trailing separator in the
// entered name creates a directory.
func (m *Model) openCreatePrompt() (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "name (trailing / for a directory)"
	ti.Focus()
	m.prompt = promptCreate
	m.promptInput = ti
	m.promptTarget = m.currentDir()
	return m, textinput.Blink
}

// openRenamePrompt starts the rename prompt prefilled with the current name.
func (m *Model) openRenamePrompt() (tea.Model, tea.Cmd) {
	e := m.ctx.Snapshot().At(m.cursor)
	if e == nil {
		return m, msg.ShowToast("nothing to rename", toastDuration)
	}
	ti := textinput.New()
	ti.SetValue(e.Name)
	ti.Focus()
	ti.CursorEnd()
	m.prompt = promptRename
	m.promptInput = ti
	m.promptTarget = e.AbsPath
	return m, textinput.Blink
}

// openDeletePrompt asks for confirmation before deleting.
func (m *Model) openDeletePrompt() (tea.Model, tea.Cmd) {
	e := m.ctx.Snapshot().At(m.cursor)
	if e == nil {
		return m, msg.ShowToast("nothing to delete", toastDuration)
	}
	m.prompt = promptDelete
	m.promptTarget = e.AbsPath
	return m, nil
}

// handlePromptKey drives the active prompt.
func (m *Model) handlePromptKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := message.String()

	if m.prompt == promptDelete {
		switch key {
		case "y", "Y":
			target := m.promptTarget
			m.closePrompt()
			root := m.ctx.Root()
			return m, func() tea.Msg {
				if err := fsops.Delete(root, target, true); err != nil {
					return fsOpDoneMsg{Err: err}
				}
				return fsOpDoneMsg{Notice: "deleted " + filepath.Base(target)}
			}
		case "n", "N", "esc":
			m.closePrompt()
			return m, nil
		}
		return m, nil
	}

	switch key {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		input := m.promptInput.Value()
		mode, target := m.prompt, m.promptTarget
		m.closePrompt()
		if input == "" {
			return m, nil
		}
		root := m.ctx.Root()
		return m, func() tea.Msg {
			switch mode {
			case promptCreate:
				path, err := fsops.Create(root, target, input)
				if err != nil {
					return fsOpDoneMsg{Err: err}
				}
				return fsOpDoneMsg{Notice: "created " + filepath.Base(path)}
			case promptRename:
				path, err := fsops.Rename(root, target, input)
				if err != nil {
					return fsOpDoneMsg{Err: err}
				}
				return fsOpDoneMsg{Notice: fmt.Sprintf("renamed %s to %s", filepath.Base(target), filepath.Base(path))}
			}
			return nil
		}

	default:
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(message)
		return m, cmd
	}
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptTarget = ""
}
