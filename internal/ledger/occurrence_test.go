package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/models"
)

func TestOccurrenceInMonth_MaterializedInstallment(t *testing.T) {
	d := accountDraft("300", models.ExpenseTypeInstallments)
	d.Installments = intPtr(3)
	rows, err := Expand(d)
	require.NoError(t, err)

	var hits []Occurrence
	for _, row := range rows {
		if occ, ok := OccurrenceInMonth(row, date(2025, 2, 1)); ok {
			hits = append(hits, occ)
			assert.True(t, row.Amount.Equal(decimal.NewFromInt(100)))
		}
	}
	require.Len(t, hits, 1)
	assert.Equal(t, "2/3", hits[0].InstallmentInfo)
	assert.Equal(t, date(2025, 2, 15), hits[0].Date)
}

func TestOccurrenceInMonth_VirtualSeries(t *testing.T) {
	total := 3
	row := models.Expense{
		Amount:           decimal.NewFromInt(100),
		Date:             date(2025, 1, 15),
		Type:             models.ExpenseTypeInstallments,
		InstallmentTotal: &total,
	}

	_, ok := OccurrenceInMonth(row, date(2024, 12, 1))
	assert.False(t, ok, "before the first occurrence")

	occ, ok := OccurrenceInMonth(row, date(2025, 2, 1))
	require.True(t, ok)
	assert.Equal(t, "2/3", occ.InstallmentInfo)
	assert.Equal(t, date(2025, 2, 15), occ.Date)

	occ, ok = OccurrenceInMonth(row, date(2025, 3, 1))
	require.True(t, ok)
	assert.Equal(t, "3/3", occ.InstallmentInfo)

	_, ok = OccurrenceInMonth(row, date(2025, 4, 1))
	assert.False(t, ok, "after the last occurrence")
}

func TestOccurrenceInMonth_PlainRow(t *testing.T) {
	row := models.Expense{Date: date(2025, 3, 1), Type: models.ExpenseTypeFixed}

	occ, ok := OccurrenceInMonth(row, date(2025, 3, 1))
	require.True(t, ok)
	assert.Empty(t, occ.InstallmentInfo)

	_, ok = OccurrenceInMonth(row, date(2025, 4, 1))
	assert.False(t, ok)
}
