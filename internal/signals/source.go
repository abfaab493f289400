package signals

import (
	"context"
	"sort"
	"time"
)

// Source produces the candidate signal set for a pipeline run. The upstream
// feed fetchers live behind this interface; the pipeline only depends on the
// Signal shape.
type Source interface {
	LiveSignals(ctx context.Context, limit int) ([]Signal, error)
}

// StaticSource serves a fixed signal set, newest first. Used in development
// and as the fixture source in tests.
type StaticSource struct {
	Signals []Signal
}

func NewStaticSource(sigs []Signal) *StaticSource {
	return &StaticSource{Signals: sigs}
}

func (s *StaticSource) LiveSignals(ctx context.Context, limit int) ([]Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Signal, len(s.Signals))
	copy(out, s.Signals)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SampleSignals returns a small development dataset anchored at now.
func SampleSignals(now time.Time) []Signal {
	return []Signal{
		{
			ID:          "funding-nvidia-seriesx-2026",
			Title:       "Nvidia leads new infrastructure funding round",
			URL:         "https://example.com/funding/nvidia",
			Source:      "Funding Wire",
			EventType:   EventTypeFunding,
			EntityName:  "nvidia",
			PublishedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:          "model-anthropic-weights-2026",
			Title:       "New frontier model weights released",
			URL:         "https://example.com/models/frontier",
			Source:      "Model Tracker",
			EventType:   EventTypeModelRelease,
			EntityName:  "frontier-1",
			PublishedAt: now.Add(-6 * time.Hour),
		},
		{
			ID:          "news-openai-enterprise-2026",
			Title:       "Enterprise adoption of assistants accelerates",
			URL:         "https://example.com/news/enterprise",
			Source:      "AI Daily",
			EventType:   EventTypeNews,
			EntityName:  "openai",
			PublishedAt: now.Add(-20 * time.Hour),
		},
	}
}
