package tabfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.tab")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSession_OpenUnsupportedMode(t *testing.T) {
	s := New()

	err := s.Open("whatever.tab", ModeUnset)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
	assert.Contains(t, err.Error(), "whatever.tab")

	err = s.Open("whatever.tab", Mode(42))
	assert.ErrorIs(t, err, ErrUnsupportedMode)

	// A failed open must leave nothing behind.
	assert.Equal(t, ModeUnset, s.Mode())
	_, _, ok := s.ReadLine()
	assert.False(t, ok)
}

func TestSession_ReadLine(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCol1 string
		wantCol2 string
		wantOK   bool
	}{
		{"two fields", "Fry\tLeela\n", "Fry", "Leela", true},
		{"extra fields discarded", "Fry\tLeela\tBender\tZoidberg\n", "Fry", "Leela", true},
		{"empty second field", "Fry\t\n", "Fry", "", true},
		{"empty first field", "\tLeela\n", "", "Leela", true},
		{"no delimiter", "Fry\n", "", "", false},
		{"empty file", "", "", "", false},
		{"empty line", "\n", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Open(writeTestFile(t, tt.content), ModeRead))
			defer s.Close()

			col1, col2, ok := s.ReadLine()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCol1, col1)
			assert.Equal(t, tt.wantCol2, col2)
		})
	}
}

func TestSession_ReadLineSequence(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(writeTestFile(t, "Fry\tLeela\nBender\tZoidberg\n"), ModeRead))
	defer s.Close()

	col1, col2, ok := s.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "Fry", col1)
	assert.Equal(t, "Leela", col2)

	col1, col2, ok = s.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "Bender", col1)
	assert.Equal(t, "Zoidberg", col2)

	col1, col2, ok = s.ReadLine()
	assert.False(t, ok)
	assert.Empty(t, col1)
	assert.Empty(t, col2)
}

func TestSession_ReadLineNonexistentPath(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(filepath.Join(t.TempDir(), "missing.tab"), ModeRead))
	defer s.Close()

	col1, col2, ok := s.ReadLine()
	assert.False(t, ok)
	assert.Empty(t, col1)
	assert.Empty(t, col2)
}

func TestSession_ReadFormsAgree(t *testing.T) {
	path := writeTestFile(t, "Amy\tKif\nHermes\tLaBarbara\n")

	s := New()
	require.NoError(t, s.Open(path, ModeRead))
	var col1, col2 string
	assert.True(t, s.Read(&col1, &col2))
	assert.Equal(t, "Amy", col1)
	assert.Equal(t, "Kif", col2)
	require.NoError(t, s.Close())

	require.NoError(t, s.Open(path, ModeRead))
	col1, col2 = "", ""
	assert.True(t, s.ReadCompat("ignored", "also ignored", &col1, &col2))
	assert.Equal(t, "Amy", col1)
	assert.Equal(t, "Kif", col2)
	require.NoError(t, s.Close())
}

func TestSession_ReadOutputsClearedOnFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(writeTestFile(t, ""), ModeRead))
	defer s.Close()

	col1, col2 := "stale", "stale"
	assert.False(t, s.Read(&col1, &col2))
	assert.Empty(t, col1)
	assert.Empty(t, col2)
}

func TestSession_ReadRecord(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(writeTestFile(t, "a\tb\tc\td\n"), ModeRead))
	defer s.Close()

	fields, ok := s.ReadRecord()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c", "d"}, fields)

	fields, ok = s.ReadRecord()
	assert.False(t, ok)
	assert.Nil(t, fields)
}

func TestSession_WriteThenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crew.tab")

	s := New()
	require.NoError(t, s.Open(path, ModeWrite))
	s.Write("Fry", "Leela")
	s.Write("Bender", "Zoidberg")
	require.NoError(t, s.Close())

	require.NoError(t, s.Open(path, ModeRead))
	defer s.Close()

	col1, col2, ok := s.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "Fry", col1)
	assert.Equal(t, "Leela", col2)

	col1, col2, ok = s.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "Bender", col1)
	assert.Equal(t, "Zoidberg", col2)

	_, _, ok = s.ReadLine()
	assert.False(t, ok)
}

func TestSession_WriteFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tab")

	s := New()
	require.NoError(t, s.Open(path, ModeWrite))
	s.Write("a", "b", "c")
	s.Write()
	s.Write("solo")
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc\n\nsolo\n", string(data))
}

func TestSession_WriteTruncatesExisting(t *testing.T) {
	path := writeTestFile(t, "old\tcontent\nmore\told\n")

	s := New()
	require.NoError(t, s.Open(path, ModeWrite))
	s.Write("new", "content")
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\tcontent\n", string(data))
}

func TestSession_WriteEmptyPathDropsSilently(t *testing.T) {
	s := New()
	require.NoError(t, s.Open("", ModeWrite))
	s.Write("dropped", "row")
	require.NoError(t, s.Close())
}

func TestSession_OperationsOutsideMode(t *testing.T) {
	path := writeTestFile(t, "Fry\tLeela\n")

	// Never opened.
	s := New()
	_, _, ok := s.ReadLine()
	assert.False(t, ok)
	s.Write("dropped")
	require.NoError(t, s.Close())

	// Writing while open for read must not touch the file.
	require.NoError(t, s.Open(path, ModeRead))
	s.Write("dropped")
	require.NoError(t, s.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Fry\tLeela\n", string(data))

	// Reading while open for write yields nothing.
	require.NoError(t, s.Open(filepath.Join(t.TempDir(), "w.tab"), ModeWrite))
	_, _, ok = s.ReadLine()
	assert.False(t, ok)
	require.NoError(t, s.Close())

	// After close, both degrade again.
	_, _, ok = s.ReadLine()
	assert.False(t, ok)
	s.Write("dropped")
}

func TestSession_CloseIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	require.NoError(t, s.Open(writeTestFile(t, "a\tb\n"), ModeRead))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, ModeUnset, s.Mode())
}

func TestSession_ReopenReleasesPreviousHandle(t *testing.T) {
	first := writeTestFile(t, "first\tfile\n")
	second := writeTestFile(t, "second\tfile\n")

	s := New()
	require.NoError(t, s.Open(first, ModeRead))
	// Re-open without close: the old handle is released, reads come from
	// the new file.
	require.NoError(t, s.Open(second, ModeRead))
	defer s.Close()

	col1, _, ok := s.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "second", col1)
}

func TestSession_MalformedLineConsumed(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(writeTestFile(t, "no delimiter here\nFry\tLeela\n"), ModeRead))
	defer s.Close()

	// The tabless line reports failure but is consumed, so the next call
	// sees the following record.
	_, _, ok := s.ReadLine()
	assert.False(t, ok)

	col1, col2, ok := s.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "Fry", col1)
	assert.Equal(t, "Leela", col2)
}
