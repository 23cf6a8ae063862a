package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// Column order of the customer and loan sheets.
const (
	colCustomerID = iota
	colFirstName
	colLastName
	colAge
	colPhoneNumber
	colMonthlySalary
	colApprovedLimit
)

const (
	colLoanCustomerID = iota
	colLoanID
	colLoanAmount
	colTenure
	colInterestRate
	colMonthlyRepayment
	colEMIsPaidOnTime
	colStartDate
	colEndDate
)

// RowError locates a malformed cell. Line numbers count the header as line 1.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCustomerRow returns ok=false for rows without a customer id.
func parseCustomerRow(row []string, line int) (CustomerRecord, bool, error) {
	if cell(row, colCustomerID) == "" {
		return CustomerRecord{}, false, nil
	}

	p := rowParser{row: row, line: line}
	rec := CustomerRecord{
		CustomerID:    p.id(colCustomerID, "customer_id"),
		FirstName:     cell(row, colFirstName),
		LastName:      cell(row, colLastName),
		Age:           p.integer(colAge, "age"),
		PhoneNumber:   p.text(colPhoneNumber),
		MonthlySalary: p.money(colMonthlySalary, "monthly_salary"),
		ApprovedLimit: p.money(colApprovedLimit, "approved_limit"),
	}
	if p.err != nil {
		return CustomerRecord{}, false, p.err
	}
	return rec, true, nil
}

// parseLoanRow returns ok=false for rows missing either identifier.
func parseLoanRow(row []string, line int) (LoanRecord, bool, error) {
	if cell(row, colLoanCustomerID) == "" || cell(row, colLoanID) == "" {
		return LoanRecord{}, false, nil
	}

	p := rowParser{row: row, line: line}
	rec := LoanRecord{
		CustomerID:       p.id(colLoanCustomerID, "customer_id"),
		LoanID:           p.id(colLoanID, "loan_id"),
		LoanAmount:       p.money(colLoanAmount, "loan_amount"),
		Tenure:           p.truncated(colTenure, "tenure"),
		InterestRate:     p.money(colInterestRate, "interest_rate"),
		MonthlyRepayment: p.money(colMonthlyRepayment, "monthly_repayment"),
		EMIsPaidOnTime:   p.optionalInteger(colEMIsPaidOnTime, "emis_paid_on_time"),
		StartDate:        p.date(colStartDate, "start_date"),
		EndDate:          p.optionalDate(colEndDate, "end_date"),
	}
	if p.err != nil {
		return LoanRecord{}, false, p.err
	}
	return rec, true, nil
}

// rowParser keeps the first cell error of a row so field extraction reads
// as a flat list.
type rowParser struct {
	row  []string
	line int
	err  error
}

func (p *rowParser) fail(column, value string, err error) {
	if p.err == nil {
		p.err = &RowError{Line: p.line, Column: column, Value: value, Err: err}
	}
}

func (p *rowParser) number(idx int, column string) (decimal.Decimal, bool) {
	raw := cell(p.row, idx)
	if raw == "" {
		p.fail(column, raw, fmt.Errorf("value is required"))
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(column, raw, err)
		return decimal.Zero, false
	}
	return d, true
}

func (p *rowParser) money(idx int, column string) float64 {
	d, ok := p.number(idx, column)
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}

// id rejects fractional values; "17.0" is accepted.
func (p *rowParser) id(idx int, column string) int64 {
	d, ok := p.number(idx, column)
	if !ok {
		return 0
	}
	if !d.IsInteger() {
		p.fail(column, cell(p.row, idx), fmt.Errorf("value must be a whole number"))
		return 0
	}
	return d.IntPart()
}

// truncated drops any fractional part.
func (p *rowParser) truncated(idx int, column string) int {
	d, ok := p.number(idx, column)
	if !ok {
		return 0
	}
	return int(d.IntPart())
}

func (p *rowParser) integer(idx int, column string) int {
	return int(p.id(idx, column))
}

func (p *rowParser) optionalInteger(idx int, column string) int {
	if cell(p.row, idx) == "" {
		return 0
	}
	return p.integer(idx, column)
}

// text keeps numeric identifiers such as phone numbers free of a trailing
// ".0" when the sheet stores them as numbers.
func (p *rowParser) text(idx int) string {
	raw := cell(p.row, idx)
	if d, err := decimal.NewFromString(raw); err == nil && d.IsInteger() {
		return d.String()
	}
	return raw
}

func (p *rowParser) date(idx int, column string) time.Time {
	raw := cell(p.row, idx)
	t, err := parseDate(raw)
	if err != nil {
		p.fail(column, raw, err)
		return time.Time{}
	}
	return t
}

func (p *rowParser) optionalDate(idx int, column string) *time.Time {
	if cell(p.row, idx) == "" {
		return nil
	}
	t := p.date(idx, column)
	if p.err != nil {
		return nil
	}
	return &t
}

// parseDate accepts YYYY-MM-DD text and spreadsheet date serials.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("value is required")
	}
	if serial, err := decimal.NewFromString(raw); err == nil {
		t, err := excelize.ExcelDateToTime(serial.InexactFloat64(), false)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}
