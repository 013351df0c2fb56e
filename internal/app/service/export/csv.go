package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/types"
)

// utf8BOM keeps spreadsheet applications from misreading the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{
	"name", "amount", "currency", "cycle", "category", "status", "next_payment", "monthly_pln",
}

// RenderCSV writes one row per subscription with every cell double-quoted,
// prefixed with a UTF-8 byte-order mark.
func RenderCSV(views []subscription.View) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writeQuotedRow(&buf, csvHeader)

	for _, v := range views {
		monthly, err := billing.MonthlyCost(v.Amount, v.Cycle)
		if err == nil {
			monthly, err = billing.ToReference(monthly, v.Currency)
		}
		monthlyCell := ""
		if err == nil {
			monthlyCell = strconv.FormatFloat(billing.Round2(monthly), 'f', 2, 64)
		}
		writeQuotedRow(&buf, []string{
			v.Name,
			strconv.FormatFloat(v.Amount, 'f', 2, 64),
			string(v.Currency),
			string(v.Cycle),
			string(v.Category),
			string(v.Status),
			v.NextPayment,
			monthlyCell,
		})
	}
	return buf.Bytes()
}

func writeQuotedRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

// readRows parses the CSV body into data records, skipping the header row
// and tolerating a leading byte-order mark and ragged row lengths.
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}
	if isHeaderRow(records[0]) {
		records = records[1:]
	}
	return records, nil
}

// isHeaderRow accepts the common header spellings rather than demanding the
// exact export header.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "name" || first == "nazwa" || first == "subscription" || first == "title"
}

// parseRow normalizes one CSV record into a subscription input. Enum cells
// fall back to documented defaults when unrecognized (currency to PLN, cycle
// to monthly, category to other, status to active, start date to today); a
// fallback row still imports. Only a missing name or unparseable amount
// rejects the row.
func parseRow(row []string, now time.Time) (*subscription.Input, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("too few columns (%d)", len(row))
	}
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(cell(1), ",", "."), 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("invalid amount %q", cell(1))
	}

	currency := types.Currency(strings.ToUpper(cell(2)))
	if !currency.Valid() {
		currency = types.CurrencyPLN
	}
	cycle := types.Cycle(strings.ToLower(cell(3)))
	if !cycle.Valid() {
		cycle = types.CycleMonthly
	}
	category := types.Category(strings.ToLower(cell(4)))
	if !category.Valid() {
		category = types.CategoryOther
	}
	status := types.SubscriptionStatus(strings.ToLower(cell(5)))
	if !status.Valid() {
		status = types.SubscriptionStatusActive
	}

	startDate := cell(6)
	start, perr := time.Parse(time.DateOnly, startDate)
	if perr != nil {
		start = billing.Day(now)
		startDate = start.Format(time.DateOnly)
	}

	return &subscription.Input{
		Name:       name,
		Amount:     amount,
		Currency:   string(currency),
		Cycle:      string(cycle),
		BillingDay: start.Day(),
		StartDate:  startDate,
		Category:   string(category),
		Status:     string(status),
	}, nil
}
