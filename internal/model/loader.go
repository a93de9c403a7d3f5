package model

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
)

// Loader reads models from .hcl, .yaml and .yml files.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader; a nil logger logs to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads every model found in paths. Directories are searched
// recursively. Every model is validated before it is returned.
func (l *Loader) Load(paths ...string) ([]*Model, error) {
	l.logger.Debug("Model loader started.", "path_count", len(paths))

	files, err := l.findModelFiles(paths)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Discovered model files.", "count", len(files))

	parser := hclparse.NewParser()
	var models []*Model
	for _, file := range files {
		var ms []*Model
		switch filepath.Ext(file) {
		case ".hcl":
			ms, err = loadHCL(parser, file)
		default:
			ms, err = loadYAML(file)
		}
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			if err := m.validate(); err != nil {
				return nil, err
			}
			l.logger.Debug("Model loaded.", "name", m.Name, "kind", m.Kind, "file", file)
		}
		models = append(models, ms...)
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no system found in %v", ErrModel, paths)
	}
	if err := uniqueNames(models); err != nil {
		return nil, err
	}
	l.logger.Debug("Model loading complete.", "models", len(models))
	return models, nil
}

func isModelFile(path string) bool {
	switch filepath.Ext(path) {
	case ".hcl", ".yaml", ".yml":
		return true
	}
	return false
}

// findModelFiles walks all given paths and returns a flat list of model
// files. Unlike directories, a file given explicitly must be a model file.
func (l *Loader) findModelFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if !isModelFile(path) {
				return nil, fmt.Errorf("%w: %s is not an .hcl or .yaml file", ErrModel, path)
			}
			add(path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && isModelFile(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}

func uniqueNames(models []*Model) error {
	seen := make(map[string]string, len(models))
	for _, m := range models {
		if prev, ok := seen[m.Name]; ok {
			return fmt.Errorf("%w: system %q is defined in %s and %s", ErrModel, m.Name, prev, m.Source)
		}
		seen[m.Name] = m.Source
	}
	return nil
}
