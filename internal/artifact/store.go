package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// latestPointerFile names the pointer the store rewrites after every
// successful publish.
const latestPointerFile = "latest.json"

// LatestPointer records which bundle file is current.
type LatestPointer struct {
	RunID     string    `json:"run_id"`
	File      string    `json:"file"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists bundles under a single directory. Writes go through a
// temp file, fsync, and rename, so a crashed run never leaves a partial
// bundle where serving might read it.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes the bundle, then repoints latest.json at it.
// It returns the bundle's absolute path.
func (s *Store) Save(bundle *Bundle) (string, error) {
	if err := bundle.Validate(); err != nil {
		return "", fmt.Errorf("refusing to persist invalid bundle: %w", err)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal bundle: %w", err)
	}

	name := fmt.Sprintf("bundle-%s.json", bundle.RunID)
	path := filepath.Join(s.dir, name)
	if err := s.writeAtomic(path, data); err != nil {
		return "", err
	}

	pointer, err := json.MarshalIndent(LatestPointer{
		RunID:     bundle.RunID,
		File:      name,
		CreatedAt: bundle.CreatedAt,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal latest pointer: %w", err)
	}
	if err := s.writeAtomic(filepath.Join(s.dir, latestPointerFile), pointer); err != nil {
		return "", err
	}

	return path, nil
}

// writeAtomic publishes data at path via temp file, fsync, and rename.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".publish-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set bundle permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to publish %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads and validates one bundle file.
func (s *Store) Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("bundle %s: %w", path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", path, err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	return &bundle, nil
}

// Latest reads the current pointer.
func (s *Store) Latest() (*LatestPointer, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, latestPointerFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no published bundle: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	var pointer LatestPointer
	if err := json.Unmarshal(data, &pointer); err != nil {
		return nil, fmt.Errorf("failed to decode latest pointer: %w", err)
	}
	return &pointer, nil
}

// LoadLatest loads the bundle the latest pointer names.
func (s *Store) LoadLatest() (*Bundle, error) {
	pointer, err := s.Latest()
	if err != nil {
		return nil, err
	}
	return s.Load(filepath.Join(s.dir, pointer.File))
}
