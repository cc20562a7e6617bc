package tree

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// CommandFormat selects how tree(1) output is parsed.
type CommandFormat int

const (
	// FormatJSON asks the provider for a single nested JSON document and
	// walks it depth-first.
	FormatJSON CommandFormat = iota
	// FormatText asks for one "./"-prefixed path per line and delegates
	// each line to ResolveLine.
	FormatText
)

// CommandLister shells out to tree(1). Both formats are functionally
// equivalent; FormatJSON carries explicit type metadata, FormatText falls
// back to stat-based classification.
type CommandLister struct {
	Bin    string // path to the tree binary; "tree" by default
	Format CommandFormat
}

// DetectTreeBin returns the path of an installed tree(1), or "" if none.
func DetectTreeBin() string {
	path, err := exec.LookPath("tree")
	if err != nil {
		return ""
	}
	return path
}

func (l *CommandLister) bin() string {
	if l.Bin == "" {
		return "tree"
	}
	return l.Bin
}

// List invokes the provider and parses its output into a snapshot.
func (l *CommandLister) List(ctx context.Context, root string, opts Options) (*Snapshot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving root: %v", ErrProviderFailed, err)
	}

	args := []string{"-a", "-L", strconv.Itoa(max(1, opts.DepthLimit)), "--noreport"}
	if opts.RespectIgnore {
		args = append(args, "--gitignore")
	}
	switch l.Format {
	case FormatJSON:
		args = append(args, "-J")
	case FormatText:
		// Full relative paths, no indentation: every line carries its own
		// "./" marker and its depth in its separator count.
		args = append(args, "-f", "-i")
	}
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, l.bin(), args...)
	cmd.Dir = abs
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderFailed, detail)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: provider produced no output", ErrProviderFailed)
	}

	snap := &Snapshot{Root: abs, DepthLimit: opts.DepthLimit}
	switch l.Format {
	case FormatJSON:
		if err := parseJSONListing(stdout.Bytes(), abs, snap); err != nil {
			return nil, err
		}
	case FormatText:
		if err := parseTextListing(stdout.String(), abs, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// jsonNode is one element of tree -J output.
type jsonNode struct {
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Contents []jsonNode `json:"contents"`
}

func parseJSONListing(data []byte, root string, snap *Snapshot) error {
	var nodes []jsonNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	if len(nodes) == 0 || nodes[0].Type != "directory" {
		return fmt.Errorf("%w: document does not start with a directory node", ErrMalformedEntry)
	}
	// nodes[0] is the scan root itself; a trailing "report" element may
	// follow it even with --noreport on some versions.
	return walkJSONNodes(nodes[0].Contents, root, 0, snap)
}

func walkJSONNodes(nodes []jsonNode, dir string, depth int, snap *Snapshot) error {
	for i := range nodes {
		n := &nodes[i]
		if n.Type == "report" {
			continue
		}
		if n.Name == "" {
			return fmt.Errorf("%w: node without a name at depth %d", ErrMalformedEntry, depth)
		}
		kind := KindFile
		if n.Type == "directory" {
			kind = KindDirectory
		}
		abs := filepath.Join(dir, n.Name)
		snap.Entries = append(snap.Entries, Entry{
			AbsPath: abs,
			Name:    n.Name,
			Kind:    kind,
			Depth:   depth,
		})
		if kind == KindDirectory && len(n.Contents) > 0 {
			if err := walkJSONNodes(n.Contents, abs, depth+1, snap); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseTextListing(out, root string, snap *Snapshot) error {
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		// The provider lists the scan root as a bare "." first.
		if line == "." {
			continue
		}
		entry, err := ResolveLine(line, root)
		if err != nil {
			return err
		}
		snap.Entries = append(snap.Entries, entry)
	}
	return nil
}
