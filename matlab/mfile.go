package matlab

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/njchilds90/symgen/calculation"
)

// FileOptions says where a generated file goes. ".m" is appended to
// Filename when missing. With Overwrite false an existing file is left
// alone.
type FileOptions struct {
	Filename  string
	Path      string
	Overwrite bool
	// Renamer supplies printable names for symbols; nil prints keys.
	Renamer Renamer
	Logger  *slog.Logger
}

// NewFileOptions returns options that overwrite existing files.
func NewFileOptions(filename, path string) FileOptions {
	return FileOptions{Filename: filename, Path: path, Overwrite: true}
}

type file struct {
	opts FileOptions
}

func newFile(opts FileOptions) file {
	if !strings.HasSuffix(opts.Filename, ".m") {
		opts.Filename += ".m"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return file{opts: opts}
}

// Path is the full path of the generated file.
func (f file) Path() string { return filepath.Join(f.opts.Path, f.opts.Filename) }

// name is the MATLAB function name, the file name without extension.
func (f file) name() string { return strings.TrimSuffix(f.opts.Filename, ".m") }

// write stores text in one call. It reports false when an existing file was
// kept because overwriting is off.
func (f file) write(text string) (bool, error) {
	path := f.Path()
	if !f.opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			f.opts.Logger.Info("File exists, skipping", "path", path)
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("checking %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	f.opts.Logger.Debug("File written", "path", path, "bytes", len(text))
	return true, nil
}

// MFile is a script file made of text and code elements.
type MFile struct {
	file
	elements []Element
}

func NewMFile(opts FileOptions) *MFile {
	return &MFile{file: newFile(opts)}
}

// AddText appends literal text.
func (m *MFile) AddText(text string) { m.elements = append(m.elements, NewStringElement(text, 0)) }

func (m *MFile) AddElement(e Element) { m.elements = append(m.elements, e) }

// AddCalculation appends c rendered through a CodeElement that uses the
// file's renamer.
func (m *MFile) AddCalculation(c *calculation.Calculation, opts ...CodeOption) error {
	ce, err := NewCodeElement(c, append([]CodeOption{WithRenamer(m.opts.Renamer)}, opts...)...)
	if err != nil {
		return err
	}
	m.elements = append(m.elements, ce)
	return nil
}

// Render returns the file content. It does not change the MFile.
func (m *MFile) Render() string { return render(m.elements) }

// Generate renders and writes the file.
func (m *MFile) Generate() (bool, error) { return m.write(m.Render()) }
