package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"payment-operations-console/internal/models"
)

func sampleBatches() []models.SettlementBatch {
	processed := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	return []models.SettlementBatch{
		{
			BatchID:             "BATCH-001",
			BatchDate:           "2025-01-15",
			Status:              models.BatchCompleted,
			TotalAmount:         decimal.NewFromFloat(1000),
			ProcessingFee:       decimal.NewFromFloat(20),
			GSTAmount:           decimal.NewFromFloat(3.6),
			NetSettlementAmount: decimal.NewFromFloat(976.4),
			TotalTransactions:   42,
			ProcessedAt:         &processed,
		},
		{
			BatchID:           "BATCH-002",
			BatchDate:         "2025-01-16",
			Status:            models.BatchPending,
			TotalTransactions: 7,
		},
	}
}

func TestBatchesCSV(t *testing.T) {
	data, err := BatchesCSV(sampleBatches())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, batchHeader, records[0])
	assert.Equal(t, "BATCH-001", records[1][0])
	assert.Equal(t, "976.4", records[1][6])
	assert.Equal(t, "2025-01-15 10:30:00", records[1][8])
	assert.Equal(t, "", records[2][8])
}

func TestBatchesCSVEmpty(t *testing.T) {
	data, err := BatchesCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestBatchesXLSX(t *testing.T) {
	data, err := BatchesXLSX(sampleBatches())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Settlements")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "batch_id", rows[0][0])
	assert.Equal(t, "BATCH-001", rows[1][0])
	assert.Equal(t, "BATCH-002", rows[2][0])
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "settlements-export.csv", Filename("csv"))
	assert.Equal(t, "settlements-export.xlsx", Filename("xlsx"))

	assert.Equal(t, "settlement-report-R1.xlsx",
		ReportFilename("R1", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.Equal(t, "settlement-report-R1.csv", ReportFilename("R1", "text/csv"))
	assert.Equal(t, "settlement-report-R1.json", ReportFilename("R1", "application/json"))
	assert.Equal(t, "settlement-report-R1.pdf", ReportFilename("R1", "application/pdf"))
}
