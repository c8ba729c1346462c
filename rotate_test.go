package prettylogs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listArchives(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var archives []string
	for _, entry := range entries {
		if entry.Name() == "app.log" {
			continue
		}
		archives = append(archives, entry.Name())
	}
	return archives
}

func TestRotation(t *testing.T) {
	t.Run("write reaching max size rotates first", func(t *testing.T) {
		dir := t.TempDir()
		stream, err := newRotatingStream(filepath.Join(dir, "app.log"), 100, 5, discardErrors)
		require.NoError(t, err)

		entry := strings.Repeat("a", 39) + "\n" // 40 bytes
		second := strings.Repeat("b", 39) + "\n"
		third := strings.Repeat("c", 39) + "\n"

		_, err = stream.Write([]byte(entry))
		require.NoError(t, err)
		_, err = stream.Write([]byte(second))
		require.NoError(t, err)
		assert.Empty(t, listArchives(t, dir), "80 bytes written, no rotation yet")

		// 80 + 40 >= 100: the third write rotates before being appended.
		_, err = stream.Write([]byte(third))
		require.NoError(t, err)

		archives := listArchives(t, dir)
		require.Len(t, archives, 1)

		archived, err := os.ReadFile(filepath.Join(dir, archives[0]))
		require.NoError(t, err)
		assert.Equal(t, entry+second, string(archived), "archive holds exactly the pre-rotation bytes")

		live, err := os.ReadFile(filepath.Join(dir, "app.log"))
		require.NoError(t, err)
		assert.Equal(t, third, string(live), "live file holds only the post-rotation entry")
	})

	t.Run("an empty live file never rotates", func(t *testing.T) {
		dir := t.TempDir()
		stream, err := newRotatingStream(filepath.Join(dir, "app.log"), 100, 5, discardErrors)
		require.NoError(t, err)

		// A single write past the limit still lands in the fresh file.
		_, err = stream.Write([]byte(strings.Repeat("x", 200)))
		require.NoError(t, err)
		assert.Empty(t, listArchives(t, dir))
	})

	t.Run("archive name is sanitized", func(t *testing.T) {
		name := archiveName("app", "log", time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC), false)
		assert.True(t, strings.HasPrefix(name, "app."))
		assert.True(t, strings.HasSuffix(name, ".log"))
		assert.NotContains(t, name, ":")
		assert.Equal(t, "app.2025-06-01T12-30-00-000Z.log", name)
	})

	t.Run("directories are created for the log path", func(t *testing.T) {
		dir := t.TempDir()
		nested := filepath.Join(dir, "logs", "nested", "app.log")
		stream, err := newRotatingStream(nested, 0, 0, discardErrors)
		require.NoError(t, err)
		defer stream.Close()

		_, err = os.Stat(nested)
		assert.NoError(t, err)
	})
}

func TestRetention(t *testing.T) {
	t.Run("at most max files archives remain", func(t *testing.T) {
		dir := t.TempDir()
		stream, err := newRotatingStream(filepath.Join(dir, "app.log"), 50, 2, discardErrors)
		require.NoError(t, err)

		// Every write after the first exceeds the limit, so six writes
		// produce five rotations.
		for i := 0; i < 6; i++ {
			_, err = stream.Write([]byte(strings.Repeat(string(rune('a'+i)), 40)))
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond) // distinct archive mtimes
		}

		archives := listArchives(t, dir)
		require.Len(t, archives, 2)

		// The survivors are the two most recently rotated entries.
		var contents []string
		for _, name := range archives {
			data, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			contents = append(contents, string(data))
		}
		assert.Contains(t, contents, strings.Repeat("d", 40))
		assert.Contains(t, contents, strings.Repeat("e", 40))
	})

	t.Run("cleanup ignores unrelated files", func(t *testing.T) {
		dir := t.TempDir()
		unrelated := filepath.Join(dir, "other.txt")
		require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0644))

		stream, err := newRotatingStream(filepath.Join(dir, "app.log"), 50, 1, discardErrors)
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			_, err = stream.Write([]byte(strings.Repeat("x", 40)))
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond)
		}

		_, err = os.Stat(unrelated)
		assert.NoError(t, err, "unrelated file untouched")
	})
}

func TestStreamClose(t *testing.T) {
	dir := t.TempDir()
	stream, err := newRotatingStream(filepath.Join(dir, "app.log"), 0, 0, discardErrors)
	require.NoError(t, err)

	_, err = stream.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close(), "close is idempotent")

	_, err = stream.Write([]byte("late\n"))
	assert.Error(t, err, "writes after close fail")
}
