package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/gateQuiz/internal/storage"
)

func TestStorage_Themes(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "prefs.db")

	s, err := NewStorage(ctx, dsn)
	require.NoError(t, err)

	_, err = s.LoadTheme(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SaveTheme(ctx, 42, "light"))
	require.NoError(t, s.SaveTheme(ctx, 42, "dark"))

	theme, err := s.LoadTheme(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	require.NoError(t, s.Close())

	reopened, err := NewStorage(ctx, dsn)
	require.NoError(t, err)
	defer reopened.Close()

	theme, err = reopened.LoadTheme(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme, "theme survives a restart")
}
