// pkg/matrix/bundle.go
package matrix

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Pack writes every file under root into a tar.xz bundle at out, preserving
// relative paths and file modes. Bundles let hosts without HDL toolchains
// receive a prebuilt bridge matrix.
func Pack(root, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating bundle: %w", err)
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating bundle: %w", err)
	}
	tw := tar.NewWriter(xw)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("packing bundle: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("packing bundle: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("packing bundle: %w", err)
	}
	return f.Close()
}

// Unpack extracts a bundle written by Pack into root, creating directories
// as needed. Entries escaping root are rejected.
func Unpack(in, root string) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	tr := tar.NewReader(xr)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unpacking bundle: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		dst := filepath.Join(root, filepath.FromSlash(hdr.Name))
		if rel, err := filepath.Rel(root, dst); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("unpacking bundle: entry %q escapes %s", hdr.Name, root)
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("unpacking bundle: %w", err)
		}

		out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode())
		if err != nil {
			return fmt.Errorf("unpacking bundle: %w", err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return fmt.Errorf("unpacking bundle: %w", err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("unpacking bundle: %w", err)
		}
	}
}
