// Package export renders subscription data into interchange artifacts:
// iCalendar event feeds and CSV spreadsheets, plus the inverse CSV import.
// Artifacts are generated on demand and never persisted.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/logctx"
)

type Service struct {
	subs *subscription.Service
	log  *zap.SugaredLogger
}

func NewService(subs *subscription.Service, log *zap.SugaredLogger) *Service {
	return &Service{subs: subs, log: log}
}

// ICal renders the user's billable subscriptions as an iCalendar feed, one
// VEVENT per subscription at its recomputed next due date.
func (s *Service) ICal(ctx context.Context, userID string) (string, error) {
	subs, err := s.subs.ListBillable(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderICal(subs, time.Now()), nil
}

// CSV renders all of the user's subscriptions as a spreadsheet-compatible
// CSV document.
func (s *Service) CSV(ctx context.Context, userID string) ([]byte, error) {
	views, err := s.subs.List(ctx, userID, subscription.ListFilter{})
	if err != nil {
		return nil, err
	}
	return RenderCSV(views), nil
}

// ImportCSV parses the reader as a subscription CSV and creates one
// subscription per parseable row. Import is the one operation allowed to
// partially succeed: it returns a success count plus per-row error strings.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, apperr.Validation("cannot parse csv: %v", err)
	}

	result := &ImportResult{}
	now := time.Now()
	for i, row := range rows {
		line := i + 2 // 1-based, after the header
		in, perr := parseRow(row, now)
		if perr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, perr))
			continue
		}
		if _, cerr := s.subs.Create(ctx, userID, in); cerr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, cerr))
			continue
		}
		result.Imported++
	}
	logctx.FromCtx(ctx, s.log).Infow("csv import finished",
		"user_id", userID, "imported", result.Imported, "errors", len(result.Errors))
	return result, nil
}

// ImportResult reports a partial-success import: how many rows became
// subscriptions and what went wrong with the rest.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// RenderICal builds a VCALENDAR document with one event per subscription at
// its next due date. The due occurrence is recomputed here, never read from
// the input rows.
func RenderICal(subs []models.Subscription, now time.Time) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//SubTracker//Payments//PL\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	for _, sub := range subs {
		start := billing.ParseDay(sub.StartDate, now)
		due := billing.NextOccurrence(start, sub.Cycle, now).UTC()

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "DTSTART:%s\r\n", due.Format(icalTimeLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", due.Add(time.Hour).Format(icalTimeLayout))
		fmt.Fprintf(&b, "SUMMARY:%s - %.2f %s\r\n", escapeICalText(sub.Name), sub.Amount, sub.Currency)
		fmt.Fprintf(&b, "DESCRIPTION:Płatność za subskrypcję %s\r\n", escapeICalText(sub.Name))
		fmt.Fprintf(&b, "UID:%s@subtracker\r\n", sub.ID)
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

const icalTimeLayout = "20060102T150405Z"

// escapeICalText escapes the characters iCalendar TEXT values reserve.
func escapeICalText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
