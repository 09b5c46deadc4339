package csvrows

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = "movie_id,title,cast\n" +
	"19995,Avatar,\"[{\"\"name\"\": \"\"Sam Worthington\"\"}]\"\n" +
	"285,Pirates,\n" +
	"1,Short\n"

func TestReadAll(t *testing.T) {
	rows, err := ReadAll(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "19995", rows[0].Get("movie_id"))
	require.Equal(t, `[{"name": "Sam Worthington"}]`, rows[0].Get("cast"))
	require.Equal(t, "", rows[1].Get("cast"))
	require.Equal(t, "", rows[2].Get("cast"), "missing trailing cell")
	require.Equal(t, "", rows[2].Get("unknown"))
}

func TestReaderPositions(t *testing.T) {
	rd, err := NewReader(strings.NewReader("\ufeffa,b\n1,2\n3,4\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, rd.Header())

	row, n, err := rd.Next()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "1", row.Get("a"))

	_, n, err = rd.Next()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, _, err = rd.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadAllEmpty(t *testing.T) {
	_, err := ReadAll(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credits.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
