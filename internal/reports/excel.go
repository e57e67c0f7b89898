package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteStockReportXLSX: Stok raporunu tek sheet'li xlsx olarak yazar.
func WriteStockReportXLSX(w io.Writer, report *StockReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Item")
	f.SetCellValue(sheet, "B1", "Opening")
	f.SetCellValue(sheet, "C1", "Supplied")
	f.SetCellValue(sheet, "D1", "Distributed")
	f.SetCellValue(sheet, "E1", "Closing")
	f.SetCellValue(sheet, "F1", "Unit Price")
	f.SetCellValue(sheet, "G1", "Total Value")

	for i, row := range report.Rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Opening)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Supplied)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.Distributed)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.Closing)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.UnitPrice.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), row.TotalValue.StringFixed(2))
	}

	totalRow := len(report.Rows) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), report.TotalValue.StringFixed(2))

	return f.Write(w)
}

// WriteCrewReportXLSX: Mürettebat raporunu tek sheet'li xlsx olarak yazar.
func WriteCrewReportXLSX(w io.Writer, report *CrewReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Seafarer ID")
	f.SetCellValue(sheet, "B1", "Name")
	f.SetCellValue(sheet, "C1", "Date")
	f.SetCellValue(sheet, "D1", "Item")
	f.SetCellValue(sheet, "E1", "Quantity")
	f.SetCellValue(sheet, "F1", "Unit Price")
	f.SetCellValue(sheet, "G1", "Line Total")

	r := 2
	for _, entry := range report.Entries {
		for _, line := range entry.Lines {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", r), entry.DisplayID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", r), entry.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", r), line.Date)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", r), line.ItemName)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", r), line.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", r), line.UnitPrice.StringFixed(2))
			f.SetCellValue(sheet, fmt.Sprintf("G%d", r), line.LineTotal.StringFixed(2))
			r++
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), "SUBTOTAL")
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), entry.Total.StringFixed(2))
		r++
	}
	f.SetCellValue(sheet, fmt.Sprintf("D%d", r), "GRAND TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("G%d", r), report.GrandTotal.StringFixed(2))

	return f.Write(w)
}
