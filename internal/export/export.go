// Package export renders the loaded settlement batches as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"payment-operations-console/internal/models"
)

var batchHeader = []string{
	"batch_id",
	"batch_date",
	"status",
	"total_amount",
	"processing_fee",
	"gst_amount",
	"net_settlement_amount",
	"total_transactions",
	"processed_at",
}

func batchRow(b models.SettlementBatch) []string {
	processedAt := ""
	if b.ProcessedAt != nil {
		processedAt = b.ProcessedAt.Format("2006-01-02 15:04:05")
	}
	return []string{
		b.BatchID,
		b.BatchDate,
		b.Status,
		b.TotalAmount.String(),
		b.ProcessingFee.String(),
		b.GSTAmount.String(),
		b.NetSettlementAmount.String(),
		strconv.Itoa(b.TotalTransactions),
		processedAt,
	}
}

// BatchesCSV writes one header row plus one row per batch.
func BatchesCSV(batches []models.SettlementBatch) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(batchHeader); err != nil {
		return nil, err
	}
	for _, b := range batches {
		if err := w.Write(batchRow(b)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BatchesXLSX writes the same table as a single-sheet workbook.
func BatchesXLSX(batches []models.SettlementBatch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Settlements"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, name := range batchHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for row, b := range batches {
		for col, value := range batchRow(b) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename is the download name for a settlements export.
func Filename(format string) string {
	return "settlements-export." + format
}

// ReportFilename derives a download name for a generated report from the
// response content type, defaulting to pdf.
func ReportFilename(reportID, contentType string) string {
	ext := "pdf"
	switch {
	case strings.Contains(contentType, "spreadsheetml"):
		ext = "xlsx"
	case strings.Contains(contentType, "csv"):
		ext = "csv"
	case strings.Contains(contentType, "json"):
		ext = "json"
	}
	return fmt.Sprintf("settlement-report-%s.%s", reportID, ext)
}
