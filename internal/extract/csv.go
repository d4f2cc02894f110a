package extract

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// decodeCSV reads a header-keyed CSV export into typed rows. Platform
// exports disagree on column sets, so unknown columns are ignored and
// missing ones decode to zero values.
func decodeCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read csv header %s", path)
	}

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "extract: decode csv row %s", path)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cell normalizes a CSV cell: trims whitespace and maps the exports'
// literal null spellings to the empty string.
func cell(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "", "NULL", "N/A":
		return ""
	}
	return s
}

// cellInt parses a numeric cell, treating null spellings as zero.
func cellInt(s string) int {
	n, _ := strconv.Atoi(cell(s))
	return n
}

// cellFloat parses a money cell, tolerating a currency prefix.
func cellFloat(s string) float64 {
	v := strings.ReplaceAll(cell(s), "$", "")
	v = strings.ReplaceAll(v, ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
