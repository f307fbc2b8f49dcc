package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"bouquet/internal/imaging"
)

// TempStore persists generated artifacts onto the local filesystem under
// opaque filenames and removes each file after a fixed retention window.
// Orphaned files (never fetched, or left over after a crash) are an
// accepted tradeoff: eviction is best effort and the startup sweep handles
// leftovers from a previous process.
type TempStore struct {
	dir       string
	baseURL   string
	retention time.Duration
	registry  *gocache.Cache
	logger    zerolog.Logger
}

// NewTempStore initializes the directory and the retention janitor.
// baseURL is the public prefix the hosting layer serves the directory
// under, e.g. http://localhost:8066/temp-generated-images.
func NewTempStore(dir, baseURL string, retention time.Duration, logger zerolog.Logger) (*TempStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: temp directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure temp directory: %w", err)
	}
	if retention <= 0 {
		retention = 10 * time.Minute
	}

	cleanup := retention / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	registry := gocache.New(retention, cleanup)

	s := &TempStore{
		dir:       dir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		retention: retention,
		registry:  registry,
		logger:    logger,
	}
	registry.OnEvicted(func(name string, _ any) { s.remove(name) })
	return s, nil
}

// SaveTemp writes the artifact under a generated opaque filename, schedules
// its deletion and returns the public URL.
func (s *TempStore) SaveTemp(data []byte, mime string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("storage: empty artifact")
	}
	name := fmt.Sprintf("flower_%s.%s",
		strings.ReplaceAll(uuid.NewString(), "-", ""),
		imaging.Extension(mime))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write artifact: %w", err)
	}
	s.registry.Set(name, struct{}{}, s.retention)
	return s.baseURL + "/" + name, nil
}

// Dir returns the directory the store writes into, for the static mount.
func (s *TempStore) Dir() string {
	return s.dir
}

// Sweep deletes files older than the retention window. Run once at startup
// so files whose in-memory deletion schedule died with a previous process
// still get cleaned up.
func (s *TempStore) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn().Err(err).Msg("temp sweep: read directory")
		return
	}
	cutoff := time.Now().Add(-s.retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.remove(entry.Name())
		}
	}
}

// remove tolerates the file already being gone.
func (s *TempStore) remove(name string) {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("file", name).Msg("temp file removal failed")
		return
	}
	if err == nil {
		s.logger.Debug().Str("file", name).Msg("temp file removed")
	}
}
