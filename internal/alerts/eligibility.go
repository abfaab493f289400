package alerts

import (
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/ranking"
	"github.com/kitefall/pulse-backend/internal/signals"
)

const (
	// DefaultThreshold is the minimum personalization score a signal needs
	// to become an alert candidate.
	DefaultThreshold = 52.0

	// MaxCandidatesPerUser bounds alert volume per user per run. The input
	// is already sorted by relevance, so capping keeps the best.
	MaxCandidatesPerUser = 8
)

// Eligible narrows a ranked (score-descending) list to the delivery
// candidates for one user: above threshold, watchlist-matched, in an enabled
// category, capped.
func Eligible(ranked []signals.RankedSignal, prefs types.AlertPreference, threshold float64, limit int) []signals.RankedSignal {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if limit <= 0 {
		limit = MaxCandidatesPerUser
	}

	out := make([]signals.RankedSignal, 0, limit)
	for _, rs := range ranked {
		if rs.PersonalizationScore.Total < threshold {
			continue
		}
		if !rs.WatchlistMatch {
			continue
		}
		if !ranking.CategoryEnabled(prefs, rs.EventType) {
			continue
		}
		out = append(out, rs)
		if len(out) == limit {
			break
		}
	}
	return out
}
