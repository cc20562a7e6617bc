// Package fsops is the filesystem mutation collaborator: create, delete and
// rename, each validated to stay inside the listing root. Callers trigger a
// listing refresh after any success; failures are reported and no refresh
// runs.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateName rejects names that cannot be a single path component.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid name")
	}
	for _, r := range name {
		if r == 0 || (r < 32 && r != '\t') {
			return fmt.Errorf("name contains invalid characters")
		}
	}
	for _, c := range []rune{'<', '>', ':', '"', '|', '?', '*'} {
		if strings.ContainsRune(name, c) {
			return fmt.Errorf("name contains invalid character: %c", c)
		}
	}
	return nil
}

// withinRoot ensures path does not escape root.
func withinRoot(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path")
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes the tree root")
	}
	return nil
}

// Create makes a new file, or a new directory when name has a trailing
// separator, under dir. Parent directories are created as needed.
func Create(root, dir, name string) (string, error) {
	isDir := strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator))
	trimmed := strings.TrimRight(name, "/"+string(filepath.Separator))
	if err := ValidateName(filepath.Base(trimmed)); err != nil {
		return "", err
	}

	path := filepath.Join(dir, trimmed)
	if err := withinRoot(root, path); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("already exists: %s", trimmed)
	}

	if isDir {
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	f.Close()
	return path, nil
}

// Delete removes a file, or a whole directory when recursive is set.
// Deleting the root itself is refused.
func Delete(root, path string, recursive bool) error {
	if err := withinRoot(root, path); err != nil {
		return err
	}
	absRoot, _ := filepath.Abs(root)
	abs, _ := filepath.Abs(path)
	if abs == absRoot {
		return fmt.Errorf("cannot delete the tree root")
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return err
	}
	if info.IsDir() && !recursive {
		return fmt.Errorf("%s is a directory", filepath.Base(abs))
	}
	if recursive {
		return os.RemoveAll(abs)
	}
	return os.Remove(abs)
}

// Rename gives path a new basename in its own directory. Separators in the
// new name are rejected: a rename never moves.
func Rename(root, path, newName string) (string, error) {
	if err := ValidateName(newName); err != nil {
		return "", err
	}
	if strings.ContainsAny(newName, "/"+string(filepath.Separator)) {
		return "", fmt.Errorf("new name cannot contain path separators")
	}
	if err := withinRoot(root, path); err != nil {
		return "", err
	}

	dst := filepath.Join(filepath.Dir(path), newName)
	if dst == path {
		return dst, nil
	}

	// Case-only renames need a two-step dance on case-insensitive
	// filesystems, where the destination "exists" check would see the
	// source itself.
	if strings.EqualFold(dst, path) && dst != path {
		tmp := path + ".treenav-rename-tmp"
		if err := os.Rename(path, tmp); err != nil {
			return "", fmt.Errorf("rename failed: %w", err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.Rename(tmp, path)
			return "", fmt.Errorf("rename failed: %w", err)
		}
		return dst, nil
	}

	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("already exists: %s", newName)
	}
	if err := os.Rename(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}
