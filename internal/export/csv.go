// Package export turns record lists into CSV text and writes the result to
// a destination chosen by the host.
package export

import (
	"strconv"
	"strings"
	"time"

	"dailybalance/internal/core"
)

const (
	actionHeader  = "type,date,description"
	expenseHeader = "amount,category,date,origin,note"

	// MIMEType is the content type announced to the host save flow.
	MIMEType = "text/csv"

	dateLayout = "2006/01/02 15:04:05"
)

// ActionRecordsCSV renders action records as CSV in the given order.
// Commas in the free-text description are replaced with spaces instead of
// being quoted; the format is deliberately lossy.
func ActionRecordsCSV(records []core.ActionRecord) string {
	var b strings.Builder
	b.WriteString(actionHeader)
	for _, rec := range records {
		b.WriteByte('\n')
		b.WriteString(rec.Type)
		b.WriteByte(',')
		b.WriteString(formatMillis(rec.Timestamp))
		b.WriteByte(',')
		b.WriteString(stripCommas(rec.Description))
	}
	return b.String()
}

// ExpensesCSV renders daily expenses as CSV in the given order. Same comma
// handling as ActionRecordsCSV, applied to the note field.
func ExpensesCSV(expenses []core.DailyExpense) string {
	var b strings.Builder
	b.WriteString(expenseHeader)
	for _, e := range expenses {
		b.WriteByte('\n')
		b.WriteString(strconv.FormatFloat(e.Amount, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(e.Category)
		b.WriteByte(',')
		b.WriteString(formatMillis(e.Date))
		b.WriteByte(',')
		b.WriteString(e.Origin)
		b.WriteByte(',')
		b.WriteString(stripCommas(e.Note))
	}
	return b.String()
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format(dateLayout)
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", " ")
}
