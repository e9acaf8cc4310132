package installer

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/spf13/afero"
	"github.com/xi2/xz" // For reading .xz compressed data

	"zsh-setup/internal/logger"
)

// fontExtensions are the archive members ExtractFonts keeps.
var fontExtensions = []string{".ttf", ".otf"}

// ExtractFonts copies every font file in the archive at src into dest and returns the
// written paths. Directory structure inside the archive is flattened; only the base name
// of each member is used, so no member can escape dest.
func ExtractFonts(fsys afero.Fs, src, dest string) ([]string, error) {
	if err := fsys.MkdirAll(dest, 0755); err != nil {
		return nil, err
	}

	f, err := fsys.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x := &fontWriter{fs: fsys, dest: dest}

	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		err = extractZip(f, x)
	case strings.HasSuffix(name, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		err = extract7z(f, x)
	case strings.HasSuffix(name, ".tar"), strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tar.xz"):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		err = extractTar(f, name, x)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", src)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", src, err)
	}
	return x.written, nil
}

// fontWriter writes font members into dest and remembers what it wrote.
type fontWriter struct {
	fs      afero.Fs
	dest    string
	written []string
}

func (w *fontWriter) wants(member string) bool {
	ext := strings.ToLower(filepath.Ext(member))
	for _, e := range fontExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *fontWriter) write(member string, r io.Reader) error {
	target := filepath.Join(w.dest, filepath.Base(member))
	out, err := w.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Debug("[DEBUG] Extracted %s\n", target)
	w.written = append(w.written, target)
	return nil
}

// extractTar handles tar and compressed tar variants
func extractTar(f io.Reader, name string, w *fontWriter) error {
	var reader io.Reader = f
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(name, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(name, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil // End of archive
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg || !w.wants(hdr.Name) {
			continue
		}
		if err := w.write(hdr.Name, tr); err != nil {
			return err
		}
	}
}

// extractZip extracts font members of a .zip archive
func extractZip(f afero.File, w *fontWriter) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return err
	}

	for _, zf := range r.File {
		if zf.FileInfo().IsDir() || !w.wants(zf.Name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return err
		}
		err = w.write(zf.Name, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extract7z extracts font members of a .7z archive
func extract7z(f afero.File, w *fontWriter) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	r, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return err
	}

	for _, sf := range r.File {
		if sf.FileInfo().IsDir() || !w.wants(sf.Name) {
			continue
		}
		rc, err := sf.Open()
		if err != nil {
			return err
		}
		err = w.write(sf.Name, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
