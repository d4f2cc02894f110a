package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeCSVIgnoresUnknownColumns(t *testing.T) {
	type row struct {
		Name string `csv:"name"`
	}
	path := writeCSV(t, "t.csv", "name,extra\nJohn,ignored\n")

	rows, err := decodeCSV[row](path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "John", rows[0].Name)
}

func TestDecodeCSVMissingColumnsZero(t *testing.T) {
	type row struct {
		Name  string `csv:"name"`
		Phone string `csv:"phone"`
	}
	path := writeCSV(t, "t.csv", "name\nJohn\n")

	rows, err := decodeCSV[row](path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "John", rows[0].Name)
	assert.Empty(t, rows[0].Phone)
}

func TestDecodeCSVMissingFile(t *testing.T) {
	_, err := decodeCSV[struct{}](filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestCellNullSpellings(t *testing.T) {
	assert.Equal(t, "", cell("NULL"))
	assert.Equal(t, "", cell("N/A"))
	assert.Equal(t, "", cell("  "))
	assert.Equal(t, "John", cell(" John "))
}

func TestCellInt(t *testing.T) {
	assert.Equal(t, 42, cellInt("42"))
	assert.Equal(t, 0, cellInt("NULL"))
	assert.Equal(t, 0, cellInt("abc"))
}

func TestCellFloat(t *testing.T) {
	assert.Equal(t, 1234.56, cellFloat("$1,234.56"))
	assert.Equal(t, 9.5, cellFloat("9.5"))
	assert.Equal(t, 0.0, cellFloat("N/A"))
}
