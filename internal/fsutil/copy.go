package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyTree recursively copies the directory src into dst, creating dst if
// needed. Existing files at the destination are replaced, files that only
// exist at the destination are left alone. Regular files keep their
// permission bits and symlinks are recreated as symlinks. It returns the
// number of files copied.
func CopyTree(src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("source tree %s: %w", src, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("source tree %s is not a directory", src)
	}

	copied := 0
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			dirInfo, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, dirInfo.Mode().Perm()|0o700)
		case d.Type()&fs.ModeSymlink != 0:
			if err := copySymlink(path, target); err != nil {
				return err
			}
		case d.Type().IsRegular():
			if err := copyFile(path, target); err != nil {
				return err
			}
		default:
			// Sockets, devices and pipes have no place in a content tree.
			return nil
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if _, err := RemoveIfExists(dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

func copySymlink(src, dst string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if _, err := RemoveIfExists(dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	return os.Symlink(link, dst)
}
