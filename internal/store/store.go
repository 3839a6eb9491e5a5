// Package store loads evaluation models from a directory keyed by
// model id.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chessmind/engine/internal/model"
)

// ErrModelNotFound is returned when no model exists for an id.
var ErrModelNotFound = errors.New("model not found")

const weightsExt = ".nnw"

// DirStore resolves model ids to weight files in a single directory.
// The id "base" maps to <dir>/base.nnw.
type DirStore struct {
	dir string
}

// NewDirStore opens dir as a model store. The directory must exist.
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open model store: %s is not a directory", dir)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *DirStore) Dir() string { return s.dir }

// Load reads and decodes the model for id. A missing file reports
// ErrModelNotFound; decode failures propagate as-is.
func (s *DirStore) Load(id string) (model.Handle, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, id+weightsExt)
	n, err := model.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load %q: %w", id, ErrModelNotFound)
		}
		return nil, fmt.Errorf("load %q: %w", id, err)
	}
	return n, nil
}

// List returns the ids of every model in the store, sorted.
func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != weightsExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), weightsExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func validateID(id string) error {
	if id == "" {
		return errors.New("empty model id")
	}
	if strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return fmt.Errorf("model id %q contains a path separator", id)
	}
	return nil
}
