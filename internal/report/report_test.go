package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"expensebot/internal/domain"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildRowsResolvesGroups(t *testing.T) {
	names := map[domain.GroupID]string{"g1": "Trip"}
	expenses := []domain.Expense{
		{Amount: 100, Reason: "Hotel", Date: day("2026-08-10"), GroupID: "g1"},
		{Amount: 20, Reason: "Snacks", Date: day("2026-08-11"), GroupID: "deleted-group"},
		{Amount: 5, Reason: domain.NoReason, Date: day("2026-08-12")},
	}

	rows := BuildRows(expenses, names)
	require.Len(t, rows, 3)
	assert.Equal(t, "Trip", rows[0].Group)
	assert.Equal(t, NoGroup, rows[1].Group)
	assert.Equal(t, NoGroup, rows[2].Group)
	assert.Equal(t, "2026-08-10", rows[0].Date)
}

func TestRenderWorkbook(t *testing.T) {
	rows := []Row{
		{Date: "2026-08-10", Amount: 100, Reason: "Hotel", Group: "Trip"},
		{Date: "2026-08-11", Amount: 50, Reason: "Taxi", Group: NoGroup},
	}

	data, err := Render(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Expenses", "Summary"}, f.GetSheetList())

	got, err := f.GetCellValue("Expenses", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-10", got)

	count, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	total, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "150", total)

	mean, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "75", mean)
}

func TestRenderEmptyHasZeroAverage(t *testing.T) {
	data, err := Render(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	mean, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "0", mean)
}

func TestPeriodFilename(t *testing.T) {
	at := day("2026-08-31")
	assert.Equal(t, "expenses_monthly_2026-08-31.xlsx", Monthly().Filename(at))
	assert.Equal(t, "expenses_all_2026-08-31.xlsx", Everything().Filename(at))
	assert.True(t, Everything().All)
}

func TestPeriodPresets(t *testing.T) {
	n := time.Now()
	m := Monthly()
	assert.Equal(t, n.Month(), m.From.Month())
	assert.Equal(t, 1, m.From.Day())

	y := Yearly()
	assert.Equal(t, time.January, y.From.Month())
	assert.Equal(t, 1, y.From.Day())
	assert.Equal(t, n.Year(), y.From.Year())

	q := Quarterly()
	assert.Contains(t, []time.Month{time.January, time.April, time.July, time.October}, q.From.Month())
	assert.Equal(t, 1, q.From.Day())
}
