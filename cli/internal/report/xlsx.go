package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the same rows as WriteCSV into an Excel workbook with a
// single "karma" sheet. Numeric columns stay numeric so downstream
// spreadsheet work does not have to re-parse scientific notation.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	const sheet = "karma"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range strings.Split(Header, ",") {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		vals := []interface{}{
			r.NodeID, r.Waterbody, r.Contaminant, r.StationID,
			r.Kn, r.MassLoad, r.UnitMass,
			windowStart, windowEnd, 1.0, "CEIM Phoenix annual Karma",
		}
		for j, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write xlsx: %w", err)
	}
	return nil
}
