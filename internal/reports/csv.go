package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteStockReportCSV: Stok raporunu CSV olarak yazar. Parasal alanlar iki
// ondalık basamakla yazılır.
func WriteStockReportCSV(w io.Writer, report *StockReport) error {
	cw := csv.NewWriter(w)

	header := []string{"Item", "Opening", "Supplied", "Distributed", "Closing", "Unit Price", "Total Value"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			row.ItemName,
			strconv.Itoa(row.Opening),
			strconv.Itoa(row.Supplied),
			strconv.Itoa(row.Distributed),
			strconv.Itoa(row.Closing),
			row.UnitPrice.StringFixed(2),
			row.TotalValue.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{"TOTAL", "", "", "", "", "", report.TotalValue.StringFixed(2)}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// WriteCrewReportCSV: Mürettebat raporunu düz satırlar halinde yazar; her
// seafarer'ın ardından ara toplam satırı, sonda genel toplam gelir.
func WriteCrewReportCSV(w io.Writer, report *CrewReport) error {
	cw := csv.NewWriter(w)

	header := []string{"Seafarer ID", "Name", "Date", "Item", "Quantity", "Unit Price", "Line Total"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, entry := range report.Entries {
		for _, line := range entry.Lines {
			record := []string{
				entry.DisplayID,
				entry.Name,
				line.Date,
				line.ItemName,
				strconv.Itoa(line.Quantity),
				line.UnitPrice.StringFixed(2),
				line.LineTotal.StringFixed(2),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		subtotal := []string{entry.DisplayID, entry.Name, "", "SUBTOTAL", "", "", entry.Total.StringFixed(2)}
		if err := cw.Write(subtotal); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{"", "", "", "GRAND TOTAL", "", "", report.GrandTotal.StringFixed(2)}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
