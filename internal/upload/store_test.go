package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dataaudit/internal/loader"
)

func TestStore_SaveRemove(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	s, err := NewStore(ctx, dir, 0)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	path, err := s.Save(ctx, "a.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "a.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))

	require.NoError(t, s.Remove(ctx, path))
	assert.NoFileExists(t, path)
}

func TestStore_SizeLimit(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, t.TempDir(), 3)
	require.NoError(t, err)

	_, err = s.Save(ctx, "big.csv", strings.NewReader("a,b\n1,2\n"))
	assert.ErrorIs(t, err, loader.ErrFileTooLarge)
	assert.NoFileExists(t, filepath.Join(s.Dir(), "big.csv"))
}
