package alerts

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/kitefall/pulse-backend/internal/signals"
)

// How many candidates an email shows. Instant sends still cover the whole
// eligible batch in the ledger; the body just stays short.
const emailBatchSize = 5

// DailyKey returns the synthetic ledger signal id for a digest sent on the
// given day. Days are UTC calendar dates.
func DailyKey(t time.Time) string {
	return "daily-" + t.UTC().Format("2006-01-02")
}

func instantSubject(candidates []signals.RankedSignal) string {
	if len(candidates) == 1 {
		return "New alert: " + candidates[0].Title
	}
	return fmt.Sprintf("%d new alerts for your watchlist", len(candidates))
}

func instantEmailHTML(firstName string, candidates []signals.RankedSignal) string {
	var b strings.Builder
	b.WriteString("<h2>")
	if strings.TrimSpace(firstName) != "" {
		fmt.Fprintf(&b, "Hi %s, ", html.EscapeString(firstName))
	}
	b.WriteString("here's what just happened on your watchlist</h2>")
	writeSignalList(&b, candidates, emailBatchSize)
	if len(candidates) > emailBatchSize {
		fmt.Fprintf(&b, "<p>…and %d more in your in-app alerts.</p>", len(candidates)-emailBatchSize)
	}
	return b.String()
}

func dailySubject(day time.Time) string {
	return "Your daily brief for " + day.UTC().Format("Jan 2")
}

func dailyEmailHTML(firstName string, candidates []signals.RankedSignal, day time.Time) string {
	var b strings.Builder
	b.WriteString("<h2>")
	if strings.TrimSpace(firstName) != "" {
		fmt.Fprintf(&b, "%s, your", html.EscapeString(firstName))
	} else {
		b.WriteString("Your")
	}
	fmt.Fprintf(&b, " watchlist brief for %s</h2>", day.UTC().Format("January 2, 2006"))
	writeSignalList(&b, candidates, emailBatchSize)
	return b.String()
}

func writeSignalList(b *strings.Builder, candidates []signals.RankedSignal, limit int) {
	b.WriteString("<ul>")
	for i, c := range candidates {
		if i == limit {
			break
		}
		b.WriteString("<li>")
		if strings.TrimSpace(c.URL) != "" {
			fmt.Fprintf(b, `<a href="%s">%s</a>`, html.EscapeString(c.URL), html.EscapeString(c.Title))
		} else {
			b.WriteString(html.EscapeString(c.Title))
		}
		fmt.Fprintf(b, " <em>%s</em>", html.EscapeString(c.PersonalizationScore.TopReason()))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
}
