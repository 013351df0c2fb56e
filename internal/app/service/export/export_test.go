package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/types"
)

func TestRenderICalRecomputesDueDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	subs := []models.Subscription{
		{
			ID:        "sub-1",
			Name:      "Netflix",
			Amount:    43,
			Currency:  types.CurrencyPLN,
			Cycle:     types.CycleMonthly,
			StartDate: "2025-05-13",
			Status:    types.SubscriptionStatusActive,
		},
	}

	ics := RenderICal(subs, now)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, ics, "VERSION:2.0\r\n")
	assert.Contains(t, ics, "PRODID:-//SubTracker//Payments//PL\r\n")
	// Next due is 2025-06-13, derived from start date and cycle.
	assert.Contains(t, ics, "DTSTART:20250613T000000Z\r\n")
	assert.Contains(t, ics, "DTEND:20250613T010000Z\r\n")
	assert.Contains(t, ics, "SUMMARY:Netflix - 43.00 PLN\r\n")
	assert.Contains(t, ics, "UID:sub-1@subtracker\r\n")
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
}

func TestRenderICalEscapesText(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	subs := []models.Subscription{
		{ID: "s", Name: "News, weekly; digest", Cycle: types.CycleWeekly, StartDate: "2025-06-09", Currency: types.CurrencyPLN},
	}
	ics := RenderICal(subs, now)
	assert.Contains(t, ics, `News\, weekly\; digest`)
}

func TestRenderCSVQuotesAndBOM(t *testing.T) {
	views := []subscription.View{
		{
			Subscription: models.Subscription{
				Name:     "Adobe \"CC\"",
				Amount:   120,
				Currency: types.CurrencyUSD,
				Cycle:    types.CycleYearly,
				Category: types.CategoryWork,
				Status:   types.SubscriptionStatusActive,
			},
			NextPayment: "2025-07-01",
		},
	}

	out := RenderCSV(views)

	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
	body := string(out[3:])
	lines := strings.Split(strings.TrimRight(body, "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"name","amount","currency","cycle","category","status","next_payment","monthly_pln"`, lines[0])
	// 120 USD yearly: 10 USD monthly, 40.00 in the reference currency.
	assert.Equal(t, `"Adobe ""CC""","120.00","USD","yearly","work","active","2025-07-01","40.00"`, lines[1])
}

func TestParseRowFallbacks(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	t.Run("unrecognized enums fall back instead of failing", func(t *testing.T) {
		in, err := parseRow([]string{"Netflix", "43", "GBP", "biweekly", "movies", "archived", "not-a-date"}, now)
		require.NoError(t, err)
		assert.Equal(t, "PLN", in.Currency)
		assert.Equal(t, "monthly", in.Cycle)
		assert.Equal(t, "other", in.Category)
		assert.Equal(t, "active", in.Status)
		assert.Equal(t, "2025-06-10", in.StartDate)
		assert.Equal(t, 10, in.BillingDay)
	})

	t.Run("well-formed row passes through", func(t *testing.T) {
		in, err := parseRow([]string{"Netflix", "43", "PLN", "monthly", "entertainment", "active", "2024-01-15"}, now)
		require.NoError(t, err)
		assert.Equal(t, "Netflix", in.Name)
		assert.Equal(t, 43.0, in.Amount)
		assert.Equal(t, "PLN", in.Currency)
		assert.Equal(t, "entertainment", in.Category)
		assert.Equal(t, "2024-01-15", in.StartDate)
		assert.Equal(t, 15, in.BillingDay)
	})

	t.Run("comma decimal separator", func(t *testing.T) {
		in, err := parseRow([]string{"Spotify", "19,99", "PLN", "monthly"}, now)
		require.NoError(t, err)
		assert.Equal(t, 19.99, in.Amount)
	})

	t.Run("too few columns", func(t *testing.T) {
		_, err := parseRow([]string{"Netflix", "43"}, now)
		assert.Error(t, err)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := parseRow([]string{"Netflix", "abc", "PLN", "monthly"}, now)
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := parseRow([]string{"Netflix", "-5", "PLN", "monthly"}, now)
		assert.Error(t, err)
	})
}

func TestReadRowsSkipsHeaderAndBOM(t *testing.T) {
	input := "\ufeffname,amount,currency,cycle\r\n\"Netflix\",\"43\",\"PLN\",\"monthly\"\r\n"
	rows, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Netflix", rows[0][0])
}

func TestReadRowsWithoutHeader(t *testing.T) {
	rows, err := readRows(strings.NewReader("\"Netflix\",\"43\",\"PLN\",\"monthly\"\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
