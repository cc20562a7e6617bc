// Package action enumerates the closed set of user-triggerable tree actions.
// Names are parsed once, at keymap registration; dispatch works on the
// enumerated kind and is matched exhaustively by the host.
package action

import "fmt"

// Kind is one tree action.
type Kind int

const (
	Invalid Kind = iota
	CloseTree
	Select
	OutDir
	InDir
	IncLevel
	DecLevel
	YankAbsPath
	YankRelPath
	Create
	Delete
	Rename
	Refresh
)

// byName maps configuration names to kinds. "inc-limit"/"dec-limit" are
// accepted as aliases of "inc-level"/"dec-level".
var byName = map[string]Kind{
	"close-tree":    CloseTree,
	"select":        Select,
	"out-dir":       OutDir,
	"in-dir":        InDir,
	"inc-level":     IncLevel,
	"inc-limit":     IncLevel,
	"dec-level":     DecLevel,
	"dec-limit":     DecLevel,
	"yank-abs-path": YankAbsPath,
	"yank-rel-path": YankRelPath,
	"create":        Create,
	"delete":        Delete,
	"rename":        Rename,
	"refresh":       Refresh,
}

var names = map[Kind]string{
	CloseTree:   "close-tree",
	Select:      "select",
	OutDir:      "out-dir",
	InDir:       "in-dir",
	IncLevel:    "inc-level",
	DecLevel:    "dec-level",
	YankAbsPath: "yank-abs-path",
	YankRelPath: "yank-rel-path",
	Create:      "create",
	Delete:      "delete",
	Rename:      "rename",
	Refresh:     "refresh",
}

// Parse resolves an action name. Unknown names are a configuration error,
// raised here at registration time rather than at dispatch.
func Parse(name string) (Kind, error) {
	k, ok := byName[name]
	if !ok {
		return Invalid, fmt.Errorf("unknown action %q", name)
	}
	return k, nil
}

// String returns the canonical configuration name.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "invalid"
}
