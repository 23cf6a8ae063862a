package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomerRow(t *testing.T) {
	t.Run("Full row", func(t *testing.T) {
		row := []string{"17", "Aarav", "Sharma", "29", "9629317944", "51000", "1800000"}

		rec, ok, err := parseCustomerRow(row, 2)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CustomerRecord{
			CustomerID:    17,
			FirstName:     "Aarav",
			LastName:      "Sharma",
			Age:           29,
			PhoneNumber:   "9629317944",
			MonthlySalary: 51000,
			ApprovedLimit: 1800000,
		}, rec)
	})

	t.Run("Numeric cells stored as floats", func(t *testing.T) {
		row := []string{"17.0", "A", "B", "29.0", "9629317944.0", "51000.5", "1800000"}

		rec, ok, err := parseCustomerRow(row, 2)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(17), rec.CustomerID)
		assert.Equal(t, 29, rec.Age)
		assert.Equal(t, "9629317944", rec.PhoneNumber)
		assert.Equal(t, 51000.5, rec.MonthlySalary)
	})

	t.Run("Row without id is ignored", func(t *testing.T) {
		_, ok, err := parseCustomerRow([]string{"", "A", "B"}, 5)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Malformed salary", func(t *testing.T) {
		row := []string{"17", "A", "B", "29", "1", "lots", "1800000"}

		_, ok, err := parseCustomerRow(row, 4)

		assert.False(t, ok)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 4, rowErr.Line)
		assert.Equal(t, "monthly_salary", rowErr.Column)
	})

	t.Run("Fractional identifiers are malformed", func(t *testing.T) {
		tests := []struct {
			name   string
			row    []string
			column string
		}{
			{name: "customer id", row: []string{"12.7", "A", "B", "29", "1", "51000", "1800000"}, column: "customer_id"},
			{name: "age", row: []string{"12", "A", "B", "29.5", "1", "51000", "1800000"}, column: "age"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, ok, err := parseCustomerRow(tt.row, 6)

				assert.False(t, ok)
				var rowErr *RowError
				require.ErrorAs(t, err, &rowErr)
				assert.Equal(t, tt.column, rowErr.Column)
				assert.Equal(t, 6, rowErr.Line)
			})
		}
	})

	t.Run("Short row is malformed", func(t *testing.T) {
		_, _, err := parseCustomerRow([]string{"17", "A", "B", "29"}, 3)

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, "monthly_salary", rowErr.Column)
	})
}

func TestParseLoanRow(t *testing.T) {
	t.Run("Text dates", func(t *testing.T) {
		row := []string{"12", "8001", "900000", "138", "16.93", "27731", "84", "2018-11-12", "2030-05-12"}

		rec, ok, err := parseLoanRow(row, 2)

		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(12), rec.CustomerID)
		assert.Equal(t, int64(8001), rec.LoanID)
		assert.Equal(t, 138, rec.Tenure)
		assert.Equal(t, 16.93, rec.InterestRate)
		assert.Equal(t, 84, rec.EMIsPaidOnTime)
		assert.Equal(t, time.Date(2018, 11, 12, 0, 0, 0, 0, time.UTC), rec.StartDate)
		require.NotNil(t, rec.EndDate)
		assert.Equal(t, time.Date(2030, 5, 12, 0, 0, 0, 0, time.UTC), *rec.EndDate)
	})

	t.Run("Spreadsheet serial dates", func(t *testing.T) {
		row := []string{"12", "8001", "900000", "12", "10", "79000", "12", "43466", "43831"}

		rec, _, err := parseLoanRow(row, 2)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), rec.StartDate)
		assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), *rec.EndDate)
	})

	t.Run("Optional cells left empty", func(t *testing.T) {
		row := []string{"12", "8001", "900000", "12", "10", "79000", "", "2019-01-01"}

		rec, ok, err := parseLoanRow(row, 2)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, rec.EMIsPaidOnTime)
		assert.Nil(t, rec.EndDate)
	})

	t.Run("Fractional tenure is truncated", func(t *testing.T) {
		row := []string{"12", "8001", "900000", "12.9", "10", "79000", "3", "2019-01-01", ""}

		rec, ok, err := parseLoanRow(row, 2)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 12, rec.Tenure)
	})

	t.Run("Fractional loan id aborts", func(t *testing.T) {
		row := []string{"12", "8001.5", "900000", "12", "10", "79000", "3", "2019-01-01", ""}

		_, _, err := parseLoanRow(row, 7)

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, "loan_id", rowErr.Column)
	})

	t.Run("Missing loan id is ignored", func(t *testing.T) {
		_, ok, err := parseLoanRow([]string{"12", ""}, 2)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Non conforming date aborts", func(t *testing.T) {
		row := []string{"12", "8001", "900000", "12", "10", "79000", "3", "12/11/2018", ""}

		_, _, err := parseLoanRow(row, 9)

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, "start_date", rowErr.Column)
		assert.Equal(t, 9, rowErr.Line)
	})
}
