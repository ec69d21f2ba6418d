package tabular

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	rows := [][]interface{}{
		{"Программа", "Версия", "Количество учеников"},
		{"АООП", "7.2", 12},
		{"Индивидуальная", "1", 0},
	}
	want := [][]string{
		{"Программа", "Версия", "Количество учеников"},
		{"АООП", "7.2", "12"},
		{"Индивидуальная", "1", "0"},
	}

	t.Run("stream", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf).Write(rows))
		got, err := ReadRows(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "census.xlsx")
		require.NoError(t, FileWriter{Path: path, Sheet: "Перепись"}.Write(rows))
		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	_, err = ReadRows(bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}
