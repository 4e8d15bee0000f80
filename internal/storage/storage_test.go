package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]Storage {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	drivers := map[string]string{
		DriverMemory: "",
		DriverFile:   filepath.Join(dir, "blobs"),
		DriverSQLite: filepath.Join(dir, "db", "inventory.db"),
	}
	out := make(map[string]Storage, len(drivers))
	for driver, path := range drivers {
		s, err := Open(ctx, driver, path)
		require.NoError(t, err, driver)
		t.Cleanup(func() { _ = s.Close() })
		out[driver] = s
	}
	return out
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Load(ctx, "products")
			require.NoError(t, err)
			require.Nil(t, got, "absent key should load as nil")

			require.NoError(t, s.Save(ctx, "products", []byte(`[{"id":1}]`)))
			got, err = s.Load(ctx, "products")
			require.NoError(t, err)
			require.Equal(t, `[{"id":1}]`, string(got))

			require.NoError(t, s.Save(ctx, "products", []byte(`[]`)))
			got, err = s.Load(ctx, "products")
			require.NoError(t, err)
			require.Equal(t, `[]`, string(got))

			require.NoError(t, s.Delete(ctx, "products"))
			got, err = s.Load(ctx, "products")
			require.NoError(t, err)
			require.Nil(t, got)

			require.NoError(t, s.Delete(ctx, "products"), "deleting an absent key is not an error")
		})
	}
}

func TestStorageKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "a", []byte("1")))
			require.NoError(t, s.Save(ctx, "b", []byte("2")))
			got, err := s.Load(ctx, "a")
			require.NoError(t, err)
			require.Equal(t, "1", string(got))
		})
	}
}

func TestMemoryCopiesBlobs(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	blob := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", blob))
	blob[0] = 'z'
	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "products", []byte("[]")))
	_, err = os.Stat(filepath.Join(dir, "products.json.tmp"))
	require.True(t, os.IsNotExist(err), "temp file should be renamed away")

	again, err := NewFile(dir)
	require.NoError(t, err)
	got, err := again.Load(ctx, "products")
	require.NoError(t, err)
	require.Equal(t, "[]", string(got))
}

func TestFileRejectsPathKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.Error(t, s.Save(context.Background(), "../escape", []byte("x")))
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventory.db")
	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "products", []byte(`[{"id":7}]`)))
	require.NoError(t, s.Close())

	again, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer again.Close()
	got, err := again.Load(ctx, "products")
	require.NoError(t, err)
	require.Equal(t, `[{"id":7}]`, string(got))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "redis", "")
	require.Error(t, err)
}
