package attachments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/formdraft/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestStager_StageAndRemove(t *testing.T) {
	tmp := t.TempDir()
	s, err := NewStager(filepath.Join(tmp, "staged"))
	require.NoError(t, err)

	src := writeFile(t, tmp, "Photo.PNG", "img")

	a, err := s.Stage(src)
	require.NoError(t, err)
	b, err := s.Stage(src)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, ".png", filepath.Ext(a))

	p, err := s.Path(a)
	require.NoError(t, err)
	content, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "img", string(content))

	require.NoError(t, s.Remove(a, b, "already-gone.png"))
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(src)
	assert.NoError(t, err, "source is untouched")
}

func TestStager_StageMissingSource(t *testing.T) {
	s, err := NewStager(t.TempDir())
	require.NoError(t, err)

	_, err = s.Stage(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestStager_PathRejectsTraversal(t *testing.T) {
	s, err := NewStager(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x", "a/b"} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, common.ErrorNotFound, name)
	}
	assert.ErrorIs(t, s.Remove("../escape"), common.ErrorNotFound)
}
