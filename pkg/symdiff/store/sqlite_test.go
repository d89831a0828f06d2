package store_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "derivations.db")

	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	rec := sampleRecord("x", 2)
	require.NoError(t, store1.Save(rec))
	require.NoError(t, store1.Close())

	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.Load(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Result, loaded.Result)
	assert.Equal(t, 2, loaded.Order)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "concurrent.db"))
	require.NoError(t, err)
	defer s.Close()

	const numGoroutines = 20
	const numOps = 5

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*numOps)
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < numOps; i++ {
				rec := sampleRecord(fmt.Sprintf("v%d", g), i+1)
				if err := s.Save(rec); err != nil {
					errs <- err
					continue
				}
				if _, err := s.Load(rec.ID); err != nil {
					errs <- err
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent operation failed: %v", err)
	}

	infos, err := s.List()
	require.NoError(t, err)
	assert.Len(t, infos, numGoroutines*numOps)
}
