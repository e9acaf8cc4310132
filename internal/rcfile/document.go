package rcfile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

// Document is a shell startup file loaded as lines, edited in memory and written back.
//
// Match policy for ReplaceLine: a declaration starts with the prefix at column 0 and runs
// until its parentheses balance. One is expected; every one is replaced, and none leaves the
// file unchanged.
type Document struct {
	fs   afero.Fs
	path string

	lines    []string
	existed  bool
	trailing bool // original content ended with a newline
	appended bool
	dirty    bool
}

// Load reads path. A missing file yields an empty document that Save will create.
func Load(fsys afero.Fs, path string) (*Document, error) {
	d := &Document{fs: fsys, path: path}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	d.existed = true
	if len(data) == 0 {
		return d, nil
	}

	text := string(data)
	d.trailing = strings.HasSuffix(text, "\n")
	d.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return d, nil
}

// Path is the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Exists reports whether the file existed when loaded (or has been saved since).
func (d *Document) Exists() bool {
	return d.existed
}

// Dirty reports whether there are unsaved edits.
func (d *Document) Dirty() bool {
	return d.dirty
}

// Lines returns a copy of the current lines.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// ReplaceLine replaces every line starting with prefix by line and returns the number of
// replaced declarations. A declaration that opens more parentheses than it closes, such as a
// multi-line `plugins=(` array, extends through the line that balances them and the whole
// span is replaced. An unbalanced declaration running to the end of the file is left alone
// and not counted. Declarations already equal to line are left as they are.
func (d *Document) ReplaceLine(prefix, line string) int {
	matches := 0
	out := make([]string, 0, len(d.lines))
	for i := 0; i < len(d.lines); i++ {
		l := d.lines[i]
		if !strings.HasPrefix(l, prefix) {
			out = append(out, l)
			continue
		}

		end, ok := declarationEnd(d.lines, i)
		if !ok {
			out = append(out, d.lines[i:]...)
			break
		}
		matches++
		if end != i || l != line {
			d.dirty = true
		}
		out = append(out, line)
		i = end
	}
	d.lines = out
	return matches
}

// declarationEnd returns the index of the line that closes every parenthesis opened from
// lines[start] on.
func declarationEnd(lines []string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "(") - strings.Count(lines[i], ")")
		if depth <= 0 {
			return i, true
		}
	}
	return start, false
}

// Contains reports whether s occurs anywhere in the document.
func (d *Document) Contains(s string) bool {
	return strings.Contains(strings.Join(d.lines, "\n"), s)
}

// AppendIfMissing appends line unless one of variants already occurs in the document.
// With no variants, line itself is the only accepted form. It reports whether it appended.
func (d *Document) AppendIfMissing(line string, variants ...string) bool {
	if len(variants) == 0 {
		variants = []string{line}
	}
	for _, v := range variants {
		if d.Contains(v) {
			return false
		}
	}

	d.lines = append(d.lines, line)
	d.appended = true
	d.dirty = true
	return true
}

// String renders the document the way Save writes it.
func (d *Document) String() string {
	if len(d.lines) == 0 {
		return ""
	}
	out := strings.Join(d.lines, "\n")
	if d.trailing || d.appended || !d.existed {
		out += "\n"
	}
	return out
}

// Save writes the document if it has edits. Existing files keep their permissions.
func (d *Document) Save() error {
	if !d.dirty {
		return nil
	}
	out := d.String()
	if err := afero.WriteFile(d.fs, d.path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	d.existed = true
	d.trailing = strings.HasSuffix(out, "\n")
	d.appended = false
	d.dirty = false
	return nil
}

// Edit loads path, applies fn and saves. It reports whether the file changed.
func Edit(fsys afero.Fs, path string, fn func(*Document)) (bool, error) {
	d, err := Load(fsys, path)
	if err != nil {
		return false, err
	}
	fn(d)
	changed := d.Dirty()
	if err := d.Save(); err != nil {
		return false, err
	}
	return changed, nil
}
