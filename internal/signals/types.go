package signals

import "time"

// Event types produced by the upstream feeds. The set is open: new types rank
// and deliver without code changes here.
const (
	EventTypeFunding      = "funding"
	EventTypeModelRelease = "model_release"
	EventTypeNews         = "news"
)

// Signal is one normalized external event, rebuilt every pipeline run and
// never persisted. ID must be stable across runs for the same real-world
// event so ledger keys stay meaningful.
type Signal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	EventType   string    `json:"event_type"`
	EntityName  string    `json:"entity_name"`
	PublishedAt time.Time `json:"published_at"`
}

// Score is the personalization output for one signal. Reasons are ordered by
// contribution, largest first, so the top one can be shown as the alert
// explanation line.
type Score struct {
	Total   float64  `json:"total"`
	Reasons []string `json:"reasons"`
}

// TopReason returns the explanation to surface with an alert.
func (s Score) TopReason() string {
	if len(s.Reasons) == 0 {
		return "Matched your personalized profile"
	}
	return s.Reasons[0]
}

// RankedSignal is a Signal augmented with its per-user score.
type RankedSignal struct {
	Signal
	PersonalizationScore Score `json:"personalization_score"`
	WatchlistMatch       bool  `json:"watchlist_match"`
}
