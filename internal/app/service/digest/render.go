package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/pkg/billing"
)

// referenceTotal sums the entries' raw amounts in the reference currency
// for the email's headline figure.
func referenceTotal(entries []timeline.Entry) float64 {
	var total float64
	for _, e := range entries {
		ref, err := billing.ToReference(e.Subscription.Amount, e.Subscription.Currency)
		if err != nil {
			continue
		}
		total += ref
	}
	return billing.Round2(total)
}

func renderReminder(name string, entries []timeline.Entry, daysBefore int) string {
	var list strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&list, "<li>%s: %.2f %s (%s)</li>",
			e.Subscription.Name, e.Subscription.Amount, e.Subscription.Currency,
			e.NextDue.Format(time.DateOnly))
	}

	when := fmt.Sprintf("za %d dni", daysBefore)
	if daysBefore == 1 {
		when = "jutro"
	}

	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;margin:0 auto">
<h1>SubTracker</h1>
<p>Cześć %s!</p>
<p>Masz %d płatności %s:</p>
<ul>%s</ul>
<p><strong>Łączna kwota: %.2f %s</strong></p>
<p style="color:#888;font-size:12px">Możesz zarządzać powiadomieniami w ustawieniach.</p>
</div>`, name, len(entries), when, list.String(), referenceTotal(entries), billing.ReferenceCurrency)
}

func renderDigest(name string, entries []timeline.Entry) string {
	var list strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&list, "<li>%s: %s - %.2f %s</li>",
			e.NextDue.Weekday(), e.Subscription.Name,
			e.Subscription.Amount, e.Subscription.Currency)
	}

	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;margin:0 auto">
<h1>Podsumowanie tygodnia</h1>
<p>Cześć %s!</p>
<p>W tym tygodniu czekają Cię następujące płatności:</p>
<ul>%s</ul>
<p><strong>Do zapłaty w tym tygodniu: %.2f %s</strong></p>
</div>`, name, list.String(), referenceTotal(entries), billing.ReferenceCurrency)
}
