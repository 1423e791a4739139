// Package export renders analysis result tables as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/vorn-digital/adlens/internal/model"
)

const xlsxSheetName = "分析結果"

// Filename builds the timestamped download name for a result file.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("analysis_result_%s.%s", now.Format("20060102_150405"), ext)
}

// WriteCSV writes the table as UTF-8 CSV with a BOM so spreadsheet
// applications pick up the encoding for Japanese column values.
func WriteCSV(w io.Writer, t *model.Table) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return eris.Wrap(err, "export: write BOM")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i < len(row) {
				record[i] = model.CellString(row[i])
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes the table as a single-sheet workbook, preserving
// cell types so numeric columns stay numeric in the spreadsheet.
func WriteXLSX(w io.Writer, t *model.Table) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(xlsxSheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range t.ColumnNames() {
		header.AddCell().SetString(name)
	}

	for _, row := range t.Rows {
		xr := sheet.AddRow()
		for i := range t.Columns {
			cell := xr.AddCell()
			if i >= len(row) || row[i] == nil {
				continue
			}
			switch v := row[i].(type) {
			case int64:
				cell.SetInt64(v)
			case float64:
				cell.SetFloat(v)
			case bool:
				cell.SetBool(v)
			case time.Time:
				cell.SetDate(v)
			default:
				cell.SetString(model.CellString(v))
			}
		}
	}

	return eris.Wrap(file.Write(w), "export: write workbook")
}
