package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *TempStore {
	t.Helper()
	store, err := NewTempStore(t.TempDir(), "http://localhost:8066/temp-generated-images", 10*time.Minute, zerolog.New(io.Discard))
	require.NoError(t, err)
	return store
}

func TestSaveTempWritesFileAndBuildsURL(t *testing.T) {
	store := newTestStore(t)

	url, err := store.SaveTemp([]byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8066/temp-generated-images/flower_"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveTempUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SaveTemp([]byte("a"), "image/png")
	require.NoError(t, err)
	second, err := store.SaveTemp([]byte("a"), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSaveTempRejectsEmptyArtifact(t *testing.T) {
	store := newTestStore(t)
	_, err := store.SaveTemp(nil, "image/png")
	assert.Error(t, err)
}

func TestSweepRemovesExpiredFilesOnly(t *testing.T) {
	store := newTestStore(t)

	stale := filepath.Join(store.Dir(), "flower_stale.png")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(store.Dir(), "flower_fresh.png")
	require.NoError(t, os.WriteFile(fresh, []byte("new"), 0o644))

	store.Sweep()

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestRemoveToleratesMissingFile(t *testing.T) {
	store := newTestStore(t)
	// Must not panic or log an error path that matters; just exercise it.
	store.remove("never_existed.png")
}
