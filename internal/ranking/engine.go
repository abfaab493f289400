// Package ranking scores signals against a single user's watchlist,
// preferences and reading behavior. Everything here is pure: no I/O, no
// clock reads, no globals. The caller supplies the snapshot and "now".
package ranking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/signals"
)

// Score weights. Chosen so a fresh watchlist-matched signal in an enabled
// category clears the default delivery threshold (52) comfortably, while a
// non-watchlist signal cannot reach it on recency alone.
const (
	baseScore        = 15.0
	watchlistBonus   = 45.0
	categoryBonus    = 12.0
	recencyMax       = 20.0
	recencyWindow    = 72 * time.Hour
	affinityBonusMax = 8.0
	saturationMalus  = 4.0

	// Read-history share below which the affinity term stays neutral, and
	// above which it flips to the oversaturation penalty.
	affinityFloor   = 0.10
	saturationShare = 0.40

	maxScore = 100.0
)

// ResolvePreferences merges a possibly-missing preference record onto the
// all-true defaults. This is the only place the default policy lives.
func ResolvePreferences(p *types.AlertPreference) types.AlertPreference {
	if p == nil {
		return types.AlertPreference{
			EmailDailyBrief:    true,
			EmailWeeklyBrief:   true,
			EmailInstantAlerts: true,
			InAppAlerts:        true,
			FundingAlerts:      true,
			ModelReleaseAlerts: true,
			CompanyNewsAlerts:  true,
		}
	}
	return *p
}

// CategoryEnabled reports whether prefs allow alerts for the given event
// type. Unknown event types pass: new upstream categories must not be
// silently dropped.
func CategoryEnabled(prefs types.AlertPreference, eventType string) bool {
	switch eventType {
	case signals.EventTypeFunding:
		return prefs.FundingAlerts
	case signals.EventTypeModelRelease:
		return prefs.ModelReleaseAlerts
	case signals.EventTypeNews:
		return prefs.CompanyNewsAlerts
	default:
		return true
	}
}

// Rank scores every signal for one user and returns them ordered by total
// descending (ties broken by newer publishedAt), truncated to limit. With
// watchlistOnly set, only watchlist-matched signals are returned; the scores
// themselves are identical either way.
func Rank(
	now time.Time,
	sigs []signals.Signal,
	watchlist []types.WatchedEntity,
	prefs *types.AlertPreference,
	history []types.ReadHistoryEntry,
	limit int,
	watchlistOnly bool,
) []signals.RankedSignal {
	resolved := ResolvePreferences(prefs)
	watched := watchSet(watchlist)
	affinity := historyShares(history)

	ranked := make([]signals.RankedSignal, 0, len(sigs))
	for _, sig := range sigs {
		rs := scoreSignal(now, sig, watched, resolved, affinity)
		if watchlistOnly && !rs.WatchlistMatch {
			continue
		}
		ranked = append(ranked, rs)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PersonalizationScore.Total != ranked[j].PersonalizationScore.Total {
			return ranked[i].PersonalizationScore.Total > ranked[j].PersonalizationScore.Total
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

type contribution struct {
	points float64
	reason string
}

func scoreSignal(
	now time.Time,
	sig signals.Signal,
	watched map[string]string,
	prefs types.AlertPreference,
	affinity map[string]float64,
) signals.RankedSignal {
	contribs := make([]contribution, 0, 4)
	total := baseScore

	match, matchedName := watchlistMatch(sig, watched)
	if match {
		total += watchlistBonus
		contribs = append(contribs, contribution{watchlistBonus, fmt.Sprintf("You're watching %s", matchedName)})
	}

	if CategoryEnabled(prefs, sig.EventType) && knownCategory(sig.EventType) {
		total += categoryBonus
		contribs = append(contribs, contribution{categoryBonus, categoryReason(sig.EventType)})
	}

	if r := recencyPoints(now, sig.PublishedAt); r > 0 {
		total += r
		contribs = append(contribs, contribution{r, recencyReason(now, sig.PublishedAt)})
	}

	if share, ok := affinityShare(sig, affinity); ok {
		switch {
		case share >= saturationShare:
			total -= saturationMalus
		case share >= affinityFloor:
			pts := affinityBonusMax * share / saturationShare
			total += pts
			contribs = append(contribs, contribution{pts, "Similar to what you've been reading"})
		}
	}

	if total > maxScore {
		total = maxScore
	}
	if total < 0 {
		total = 0
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].points > contribs[j].points
	})
	reasons := make([]string, 0, len(contribs))
	for _, c := range contribs {
		reasons = append(reasons, c.reason)
	}

	return signals.RankedSignal{
		Signal:               sig,
		PersonalizationScore: signals.Score{Total: total, Reasons: reasons},
		WatchlistMatch:       match,
	}
}

// watchSet indexes the watchlist as "entityType|slug" → display name.
func watchSet(watchlist []types.WatchedEntity) map[string]string {
	out := make(map[string]string, len(watchlist))
	for _, e := range watchlist {
		out[e.EntityType+"|"+Slugify(e.Slug)] = e.Name
	}
	return out
}

// watchlistMatch checks the signal's entity against the watchlist under every
// entity type the event can refer to. A funding event about "nvidia" matches
// both a watched company named nvidia and a watched fund named nvidia.
func watchlistMatch(sig signals.Signal, watched map[string]string) (bool, string) {
	slug := Slugify(sig.EntityName)
	if slug == "" {
		return false, ""
	}
	for _, et := range matchEntityTypes(sig.EventType) {
		if name, ok := watched[et+"|"+slug]; ok {
			if name == "" {
				name = sig.EntityName
			}
			return true, name
		}
	}
	return false, ""
}

func matchEntityTypes(eventType string) []string {
	switch eventType {
	case signals.EventTypeFunding:
		return []string{types.EntityTypeCompany, types.EntityTypeFunding}
	case signals.EventTypeModelRelease:
		return []string{types.EntityTypeModel}
	case signals.EventTypeNews:
		return []string{types.EntityTypeCompany}
	default:
		return []string{types.EntityTypeCompany, types.EntityTypeModel, types.EntityTypeFunding}
	}
}

// Slugify normalizes an entity name to watchlist slug form.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	return s
}

func knownCategory(eventType string) bool {
	switch eventType {
	case signals.EventTypeFunding, signals.EventTypeModelRelease, signals.EventTypeNews:
		return true
	default:
		return false
	}
}

func categoryReason(eventType string) string {
	switch eventType {
	case signals.EventTypeFunding:
		return "Funding alerts are on"
	case signals.EventTypeModelRelease:
		return "Model release alerts are on"
	default:
		return "Company news alerts are on"
	}
}

func recencyPoints(now, publishedAt time.Time) float64 {
	if publishedAt.IsZero() || publishedAt.After(now) {
		return recencyMax
	}
	age := now.Sub(publishedAt)
	if age >= recencyWindow {
		return 0
	}
	return recencyMax * (1 - float64(age)/float64(recencyWindow))
}

func recencyReason(now, publishedAt time.Time) string {
	if publishedAt.IsZero() {
		return "Breaking now"
	}
	age := now.Sub(publishedAt)
	switch {
	case age < time.Hour:
		return "Breaking now"
	case age < 24*time.Hour:
		return fmt.Sprintf("Published %d hours ago", int(age.Hours()))
	default:
		return fmt.Sprintf("Published %d days ago", int(age.Hours()/24))
	}
}

// historyShares computes, per entity slug and per article type, the share of
// the recent read history it accounts for.
func historyShares(history []types.ReadHistoryEntry) map[string]float64 {
	if len(history) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, h := range history {
		if t := strings.TrimSpace(h.ArticleType); t != "" {
			counts["type|"+strings.ToLower(t)]++
		}
		if e := Slugify(h.EntityName); e != "" {
			counts["entity|"+e]++
		}
	}
	total := float64(len(history))
	out := make(map[string]float64, len(counts))
	for k, n := range counts {
		out[k] = float64(n) / total
	}
	return out
}

// affinityShare returns the strongest history share relevant to the signal:
// the entity itself wins over the broader category.
func affinityShare(sig signals.Signal, affinity map[string]float64) (float64, bool) {
	if len(affinity) == 0 {
		return 0, false
	}
	if share, ok := affinity["entity|"+Slugify(sig.EntityName)]; ok {
		return share, true
	}
	if share, ok := affinity["type|"+strings.ToLower(sig.EventType)]; ok {
		return share, true
	}
	return 0, false
}
