// pkg/artifact/rename.go
package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// RenameSafe moves oldpath to newpath, working around per-platform quirks:
// renaming an open or loaded library is unreliable on darwin, so a symbolic
// link is created there instead; windows lacks dependable rename and symlink
// semantics for loaded modules, so the file is copied. Any pre-existing
// target is replaced (remove then write, last writer wins).
//
// The operation is idempotent: invoking it again with the same arguments
// after it has succeeded is a no-op.
func (n *Namer) RenameSafe(oldpath, newpath string) error {
	if oldpath == newpath {
		return nil
	}

	switch n.OS {
	case "darwin":
		return symlinkReplace(oldpath, newpath)
	case "windows":
		return copyFile(oldpath, newpath)
	default:
		if _, err := os.Stat(oldpath); err != nil {
			// Source already moved: a previous invocation completed.
			if _, serr := os.Stat(newpath); serr == nil {
				return nil
			}
			return fmt.Errorf("renaming artifact: %w", err)
		}
		if err := os.Rename(oldpath, newpath); err != nil {
			if !errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("renaming artifact: %w", err)
			}
			if err := os.Remove(newpath); err != nil {
				return fmt.Errorf("replacing artifact: %w", err)
			}
			if err := os.Rename(oldpath, newpath); err != nil {
				return fmt.Errorf("renaming artifact: %w", err)
			}
		}
		return nil
	}
}

func symlinkReplace(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("linking artifact: %w", err)
	}
	if err := os.Remove(link); err != nil {
		return fmt.Errorf("replacing artifact link: %w", err)
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("linking artifact: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying artifact: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("copying artifact: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("copying artifact: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying artifact: %w", err)
	}

	return out.Close()
}
