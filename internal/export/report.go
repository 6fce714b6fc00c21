// Package export renders reports as downloadable spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/services"
)

// ContentTypeXLSX is the MIME type of the workbooks written here.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	transactionsSheet = "Transactions"
	totalsSheet       = "Totals"
)

var transactionHeaders = []string{"Date", "Type", "Description", "Category", "Source", "Installment", "Paid", "Amount"}

// MonthlyReportFileName is the attachment name for a monthly report workbook.
func MonthlyReportFileName(report *services.MonthlyReport) string {
	return fmt.Sprintf("report_%04d_%02d.xlsx", report.Year, report.Month)
}

// WriteMonthlyReport writes the report as a workbook with a transactions
// sheet and a totals sheet.
func WriteMonthlyReport(w io.Writer, report *services.MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeTransactions(f, report); err != nil {
		return err
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("create totals sheet: %w", err)
	}
	if err := writeTotals(f, report); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, report *services.MonthlyReport) error {
	if err := setRow(f, transactionsSheet, 1, toCells(transactionHeaders)); err != nil {
		return err
	}

	for i, tx := range report.Transactions {
		category, source, paid := "", "", ""
		if tx.Category != nil {
			category = tx.Category.Name
		}
		if tx.Source != nil {
			source = tx.Source.Name
		}
		if tx.IsPaid != nil {
			paid = "no"
			if *tx.IsPaid {
				paid = "yes"
			}
		}

		amount := tx.Amount.InexactFloat64()
		if tx.Type == services.ReportTypeExpense {
			amount = -amount
		}

		row := []interface{}{
			tx.Date.Format("2006-01-02"),
			tx.Type,
			tx.Description,
			category,
			source,
			tx.InstallmentInfo,
			paid,
			amount,
		}
		if err := setRow(f, transactionsSheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(transactionsSheet, "A", "B", 12)
	_ = f.SetColWidth(transactionsSheet, "C", "C", 30)
	_ = f.SetColWidth(transactionsSheet, "D", "E", 18)
	return nil
}

func writeTotals(f *excelize.File, report *services.MonthlyReport) error {
	rows := [][]interface{}{
		{"Month", fmt.Sprintf("%04d-%02d", report.Year, report.Month)},
		{"Total earnings", report.TotalEarnings.InexactFloat64()},
		{"Total expenses", report.TotalExpenses.InexactFloat64()},
		{"Balance", report.Balance.InexactFloat64()},
	}
	for i, row := range rows {
		if err := setRow(f, totalsSheet, i+1, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(totalsSheet, "A", "A", 18)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
