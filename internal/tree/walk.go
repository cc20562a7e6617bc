package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WalkLister lists a tree by reading the filesystem directly. It is the
// fallback when tree(1) is not installed and produces the same pre-order,
// dirs-before-files, case-insensitively sorted sequence.
type WalkLister struct{}

func (WalkLister) List(ctx context.Context, root string, opts Options) (*Snapshot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving root: %v", ErrProviderFailed, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a readable directory", ErrProviderFailed, abs)
	}

	snap := &Snapshot{Root: abs, DepthLimit: opts.DepthLimit}
	if err := walkDir(ctx, abs, 0, max(1, opts.DepthLimit), snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func walkDir(ctx context.Context, dir string, depth, limit int, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable subdirectories are listed but not descended into;
		// only an unreadable root is fatal and that is caught in List.
		return nil
	}

	dirs := make([]os.DirEntry, 0, len(dirents))
	files := make([]os.DirEntry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() {
			dirs = append(dirs, d)
		} else {
			files = append(files, d)
		}
	}
	byName := func(s []os.DirEntry) {
		sort.Slice(s, func(i, j int) bool {
			return strings.ToLower(s[i].Name()) < strings.ToLower(s[j].Name())
		})
	}
	byName(dirs)
	byName(files)

	for _, d := range append(dirs, files...) {
		abs := filepath.Join(dir, d.Name())
		kind := KindFile
		if d.IsDir() {
			kind = KindDirectory
		}
		snap.Entries = append(snap.Entries, Entry{
			AbsPath: abs,
			Name:    d.Name(),
			Kind:    kind,
			Depth:   depth,
		})
		if kind == KindDirectory && depth+1 < limit {
			if err := walkDir(ctx, abs, depth+1, limit, snap); err != nil {
				return err
			}
		}
	}
	return nil
}
