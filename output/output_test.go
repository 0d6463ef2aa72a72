package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunDir verifies date-stamped directory naming
func TestRunDir(t *testing.T) {
	w := &Writer{BaseDir: "outputs"}
	at := time.Date(2025, time.July, 14, 23, 59, 0, 0, time.Local)

	assert.Equal(t, filepath.Join("outputs", "20250714"), w.RunDir(at))
}

// TestEnsureDir_Idempotent verifies repeated creation is not an error
func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs", "20250714")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestWriteNew verifies content lands on disk
func TestWriteNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1_タイトル.txt")

	require.NoError(t, WriteNew(path, "~~タイトル~~\n本文"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "~~タイトル~~\n本文", string(data))
}

// TestWriteNew_ExistingUntouched verifies the write-once guarantee: the
// second write reports ErrExists and the first content survives
func TestWriteNew_ExistingUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1_a.txt")
	require.NoError(t, WriteNew(path, "first"))

	err := WriteNew(path, "second")

	assert.ErrorIs(t, err, ErrExists)
	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, "first", string(data), "existing file must not be overwritten")
}

// TestArticleFilename verifies index prefix and UTF-8 titles
func TestArticleFilename(t *testing.T) {
	assert.Equal(t, "1_大雨のおそれ 警戒を.txt", ArticleFilename(1, "大雨のおそれ 警戒を"))
	assert.Equal(t, "12_plain.txt", ArticleFilename(12, "plain"))
}

// TestArticleFilename_Sanitized verifies separators cannot escape the
// output directory
func TestArticleFilename_Sanitized(t *testing.T) {
	got := ArticleFilename(3, `A/B\C`)

	assert.Equal(t, "3_A_B_C.txt", got)
	assert.NotContains(t, got, "/")
	assert.NotContains(t, got, `\`)
}
