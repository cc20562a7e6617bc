// Package nav owns the navigation state machine: the current root, the
// current depth limit, the installed listing snapshot, and the policy that
// keeps the cursor on the same filesystem entry across re-lists.
//
// Every transition is a full re-list. The machine never patches a snapshot
// in place; it hands out a Request describing the listing to run and installs
// the result through Complete. Listings may run off-thread, so each Request
// carries a generation token: a completion whose generation is no longer
// current is discarded, which is how a slow stale listing is prevented from
// overwriting a newer one.
package nav

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/marcus/treenav/internal/tree"
)

// ErrInvalidTransition marks user-visible no-ops: decreasing depth below the
// floor, ascending above the filesystem root, selecting a vanished line.
// They are reported as notices and change no state.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrBusy means a listing is already in flight for this context. Actions are
// rejected, not queued.
var ErrBusy = errors.New("listing in progress")

// State of one navigation context.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateListing // transient, while a re-list is in flight
)

// MinDepth is the floor for the depth limit.
const MinDepth = 1

// Request describes one listing the host must run. Generation ties the
// eventual completion back to the transition that asked for it.
type Request struct {
	Root          string
	DepthLimit    int
	RespectIgnore bool
	Generation    uint64
}

// Selection is the outcome of Select on a File entry.
type Selection struct {
	AbsPath string
}

// Context is the persistent state of one open tree view. It is owned by a
// single goroutine; all methods must be called from it.
type Context struct {
	state      State
	root       string
	depthLimit int
	snapshot   *tree.Snapshot

	focusPath  string // cursor target carried into the next snapshot
	originPath string // document that was active when the view opened

	respectIgnore bool
	iconsEnabled  bool

	generation uint64 // increments on every issued Request
}

// New creates a closed context. originPath is the fallback cursor target
// until navigation begins; it may be empty.
func New(originPath string, iconsEnabled, respectIgnore bool) *Context {
	return &Context{
		originPath:    originPath,
		iconsEnabled:  iconsEnabled,
		respectIgnore: respectIgnore,
	}
}

// State returns the current lifecycle state.
func (c *Context) State() State { return c.state }

// Root returns the current listing root.
func (c *Context) Root() string { return c.root }

// DepthLimit returns the current depth limit.
func (c *Context) DepthLimit() int { return c.depthLimit }

// IconsEnabled reports the view's icon toggle, fixed for its lifetime.
func (c *Context) IconsEnabled() bool { return c.iconsEnabled }

// Snapshot returns the installed snapshot, nil before the first Complete.
func (c *Context) Snapshot() *tree.Snapshot { return c.snapshot }

// issue stamps a new generation and moves into the listing state.
func (c *Context) issue() Request {
	c.generation++
	c.state = StateListing
	return Request{
		Root:          c.root,
		DepthLimit:    c.depthLimit,
		RespectIgnore: c.respectIgnore,
		Generation:    c.generation,
	}
}

// carryFocus records the cursor's entry as the target for the next snapshot.
func (c *Context) carryFocus(cursor int) {
	if e := c.snapshot.At(cursor); e != nil {
		c.focusPath = e.AbsPath
	}
}

// Open starts the view on root with the given depth limit. The cursor
// target defaults to the origin document.
func (c *Context) Open(root string, depthLimit int) (Request, error) {
	if c.state != StateClosed {
		return Request{}, fmt.Errorf("%w: view already open", ErrInvalidTransition)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	c.root = abs
	c.depthLimit = max(MinDepth, depthLimit)
	c.focusPath = c.originPath
	return c.issue(), nil
}

// Descend makes the directory under the cursor the new root. The depth limit
// resets to 1: the old limit was relative to a subtree that no longer frames
// the view. The cursor's entry is carried as the focus target.
func (c *Context) Descend(cursor int) (Request, error) {
	if err := c.ready(); err != nil {
		return Request{}, err
	}
	e := c.snapshot.At(cursor)
	if e == nil {
		return Request{}, fmt.Errorf("%w: no entry on that line", ErrInvalidTransition)
	}
	if e.Kind != tree.KindDirectory {
		return Request{}, fmt.Errorf("%w: %s is not a directory", ErrInvalidTransition, e.Name)
	}
	c.carryFocus(cursor)
	c.root = e.AbsPath
	c.depthLimit = MinDepth
	return c.issue(), nil
}

// Ascend moves the root to its parent directory, keeping the depth limit
// unchanged. Depth-preserving on purpose: ascending is a widening of the
// same view, unlike Descend which reframes it. The old root becomes the
// focus target so the cursor lands on the subtree the user came from.
func (c *Context) Ascend() (Request, error) {
	if err := c.ready(); err != nil {
		return Request{}, err
	}
	parent := filepath.Dir(c.root)
	if parent == c.root {
		return Request{}, fmt.Errorf("%w: already at filesystem root", ErrInvalidTransition)
	}
	c.focusPath = c.root
	c.root = parent
	return c.issue(), nil
}

// IncreaseDepth deepens the listing by one level, keeping the cursor on its
// current entry.
func (c *Context) IncreaseDepth(cursor int) (Request, error) {
	if err := c.ready(); err != nil {
		return Request{}, err
	}
	c.carryFocus(cursor)
	c.depthLimit++
	return c.issue(), nil
}

// DecreaseDepth shallows the listing by one level, floored at MinDepth.
// At the floor it is a user-visible no-op: no state change, no re-list.
func (c *Context) DecreaseDepth(cursor int) (Request, error) {
	if err := c.ready(); err != nil {
		return Request{}, err
	}
	if c.depthLimit <= MinDepth {
		return Request{}, fmt.Errorf("%w: depth limit already at %d", ErrInvalidTransition, MinDepth)
	}
	c.carryFocus(cursor)
	c.depthLimit--
	return c.issue(), nil
}

// Refresh re-lists with unchanged root and depth so the view survives
// filesystem mutations, keeping the cursor on its current entry.
func (c *Context) Refresh(cursor int) (Request, error) {
	if err := c.ready(); err != nil {
		return Request{}, err
	}
	c.carryFocus(cursor)
	return c.issue(), nil
}

// Select acts on the entry under the cursor: a directory behaves as Descend,
// a file yields a Selection for the host to open. Selecting a file changes
// no navigation state.
func (c *Context) Select(cursor int) (Request, *Selection, error) {
	if err := c.ready(); err != nil {
		return Request{}, nil, err
	}
	e := c.snapshot.At(cursor)
	if e == nil {
		return Request{}, nil, fmt.Errorf("%w: no entry on that line", ErrInvalidTransition)
	}
	if e.Kind == tree.KindDirectory {
		req, err := c.Descend(cursor)
		return req, nil, err
	}
	return Request{}, &Selection{AbsPath: e.AbsPath}, nil
}

// Close releases the view. Any in-flight listing becomes stale.
func (c *Context) Close() {
	c.state = StateClosed
	c.snapshot = nil
	c.focusPath = ""
	c.generation++
}

// Complete installs a finished listing. Stale generations are discarded and
// the previous snapshot stays as it was. The returned cursor is the 0-based
// line the host should place the cursor on, chosen by the continuity policy:
// the carried focus path wins, the origin document is the fallback, line 0
// is the last resort. The ordering matters: once navigation has begun, the
// carried focus must beat the origin fallback or repeated depth changes
// would keep snapping the cursor back to the originally opened file.
func (c *Context) Complete(gen uint64, snap *tree.Snapshot) (cursor int, ok bool) {
	if gen != c.generation || c.state != StateListing {
		return 0, false
	}
	c.snapshot = snap
	c.state = StateOpen

	if i := snap.IndexOf(c.focusPath); i >= 0 {
		return i, true
	}
	if i := snap.IndexOf(c.originPath); i >= 0 {
		return i, true
	}
	return 0, true
}

// Fail aborts the in-flight listing, leaving the previous snapshot
// installed. Returns false for stale generations.
func (c *Context) Fail(gen uint64) bool {
	if gen != c.generation || c.state != StateListing {
		return false
	}
	c.state = StateOpen
	return true
}

// ready guards transitions that need an installed snapshot and no listing
// in flight.
func (c *Context) ready() error {
	switch c.state {
	case StateListing:
		return ErrBusy
	case StateClosed:
		return fmt.Errorf("%w: view is closed", ErrInvalidTransition)
	}
	return nil
}
