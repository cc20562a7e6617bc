package tree

import (
	"context"
	"errors"
)

// Listing errors. Both abort the in-progress listing: no partial snapshot is
// ever installed over a previous one.
var (
	// ErrProviderFailed means the listing provider exited non-zero or
	// produced no output.
	ErrProviderFailed = errors.New("listing provider failed")

	// ErrMalformedEntry means a provider line or node had no recognizable
	// path component.
	ErrMalformedEntry = errors.New("malformed listing entry")
)

// Options bound a single listing invocation.
type Options struct {
	DepthLimit    int  // maximum nesting depth requested from the provider
	RespectIgnore bool // honor .gitignore files when the provider supports it
}

// Lister produces an ordered snapshot of a directory tree. Implementations
// must emit entries in pre-order with deterministic (sorted) sibling order,
// including hidden entries.
type Lister interface {
	List(ctx context.Context, root string, opts Options) (*Snapshot, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context, root string, opts Options) (*Snapshot, error)

func (f ListerFunc) List(ctx context.Context, root string, opts Options) (*Snapshot, error) {
	return f(ctx, root, opts)
}
