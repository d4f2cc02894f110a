// Package report writes run artifacts: transaction and customer JSON files,
// the flattened customer CSV, and the combined per-store XLSX workbook.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Acehaidrey/acelife/internal/model"
	"github.com/Acehaidrey/acelife/internal/normalize"
)

// EncodeJSON writes v to w with indentation.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "report: encode json")
}

// WriteJSON marshals v with indentation and writes it atomically: the bytes
// land in a temp file in the destination directory and are renamed into
// place, so a crashed run never leaves a truncated artifact behind.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal json")
	}
	return writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(append(data, '\n'))
		return err
	})
}

// customerRow is the flattened CSV projection of a CustomerRecord. Set
// fields are joined with ";"; the email column holds a single address, so a
// customer with several emails expands to several rows.
type customerRow struct {
	Platforms         string  `csv:"platforms"`
	StoreName         string  `csv:"storeName"`
	CustomerNumber    int64   `csv:"customerNumber"`
	CustomerNames     string  `csv:"customerNames"`
	CustomerAddresses string  `csv:"customerAddresses"`
	CustomerEmail     string  `csv:"customerEmails"`
	LastOrderDate     string  `csv:"lastOrderDate"`
	FirstOrderDate    string  `csv:"firstOrderDate"`
	OrderCount        int     `csv:"orderCount"`
	TotalSpend        float64 `csv:"totalSpend"`
}

func expandCustomer(c *model.CustomerRecord) []customerRow {
	base := customerRow{
		Platforms:         strings.Join(c.Platforms.Values(), ";"),
		StoreName:         string(c.StoreName),
		CustomerNumber:    c.CustomerNumber,
		CustomerNames:     strings.Join(c.CustomerNames.Values(), ";"),
		CustomerAddresses: strings.Join(c.CustomerAddresses.Values(), ";"),
		LastOrderDate:     normalize.DateOnly(c.LastOrderDate),
		FirstOrderDate:    normalize.DateOnly(c.FirstOrderDate),
		OrderCount:        c.OrderCount,
		TotalSpend:        c.TotalSpend,
	}

	emails := c.CustomerEmails.Values()
	if len(emails) == 0 {
		return []customerRow{base}
	}
	rows := make([]customerRow, 0, len(emails))
	for _, email := range emails {
		row := base
		row.CustomerEmail = email
		rows = append(rows, row)
	}
	return rows
}

// WriteCustomerCSV writes the flattened customer rows atomically.
func WriteCustomerCSV(path string, customers []*model.CustomerRecord) error {
	var rows []customerRow
	for _, c := range customers {
		rows = append(rows, expandCustomer(c)...)
	}
	return writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		enc := csvutil.NewEncoder(w)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return eris.Wrap(err, "report: encode csv row")
			}
		}
		w.Flush()
		return w.Error()
	})
}

// xlsxHeader matches the customer CSV column order.
var xlsxHeader = []string{
	"platforms", "storeName", "customerNumber", "customerNames",
	"customerAddresses", "customerEmails", "lastOrderDate", "firstOrderDate",
	"orderCount", "totalSpend",
}

// WriteXLSX writes one workbook with a sheet per store, sorted by store name
// so reruns produce identical files.
func WriteXLSX(path string, byStore map[model.Store][]*model.CustomerRecord) error {
	stores := make([]string, 0, len(byStore))
	for store := range byStore {
		stores = append(stores, string(store))
	}
	sort.Strings(stores)

	wb := xlsx.NewFile()
	for _, store := range stores {
		sheet, err := wb.AddSheet(store)
		if err != nil {
			return eris.Wrap(err, "report: add sheet")
		}
		header := sheet.AddRow()
		for _, col := range xlsxHeader {
			header.AddCell().SetString(col)
		}
		for _, c := range byStore[model.Store(store)] {
			for _, row := range expandCustomer(c) {
				r := sheet.AddRow()
				r.AddCell().SetString(row.Platforms)
				r.AddCell().SetString(row.StoreName)
				r.AddCell().SetInt64(row.CustomerNumber)
				r.AddCell().SetString(row.CustomerNames)
				r.AddCell().SetString(row.CustomerAddresses)
				r.AddCell().SetString(row.CustomerEmail)
				r.AddCell().SetString(row.LastOrderDate)
				r.AddCell().SetString(row.FirstOrderDate)
				r.AddCell().SetInt(row.OrderCount)
				r.AddCell().SetFloat(row.TotalSpend)
			}
		}
	}

	tmp, err := tempSibling(path)
	if err != nil {
		return err
	}
	if err := wb.Save(tmp); err != nil {
		os.Remove(tmp)
		return eris.Wrap(err, "report: save xlsx")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return eris.Wrap(err, "report: rename xlsx")
	}
	return nil
}

func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := tempSibling(path)
	if err != nil {
		return err
	}
	f, err := os.Create(tmp)
	if err != nil {
		return eris.Wrap(err, "report: create temp file")
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return eris.Wrap(err, "report: write artifact")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return eris.Wrap(err, "report: close temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return eris.Wrap(err, "report: rename artifact")
	}
	return nil
}

func tempSibling(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "report: create output dir")
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", eris.Wrap(err, "report: create temp file")
	}
	name := f.Name()
	f.Close()
	return name, nil
}
