package parser

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/geo"
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

const (
	// SuggestFloor điểm fuzzy tối thiểu để đưa vào gợi ý
	SuggestFloor        = 0.5
	defaultSuggestLimit = 5
)

// Suggest gợi ý các ứng viên gần đúng (Jaro-Winkler / Levenshtein) cho một cấp chưa khớp.
// Chỉ để người vận hành tham khảo, không ảnh hưởng kết quả resolve.
func (am *AddressMatcher) Suggest(ctx context.Context, tier models.Tier, query, parentID string, limit int) ([]models.MatchCandidate, error) {
	snapshot, err := am.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return suggestWith(snapshot, tier, query, parentID, limit), nil
}

func suggestWith(snapshot *geo.Snapshot, tier models.Tier, query, parentID string, limit int) []models.MatchCandidate {
	q, ok := newMatchQuery(query)
	if !ok {
		return nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	var out []models.MatchCandidate
	for _, e := range snapshot.Entries(tier, parentID) {
		best := 0.0
		for _, k := range e.Keys {
			best = math.Max(best, fuzzyScore(q.full, k))
		}
		for _, b := range e.Bare {
			best = math.Max(best, fuzzyScore(q.bare, b))
		}
		if best >= SuggestFloor {
			out = append(out, models.MatchCandidate{Node: e.Node, Confidence: math.Round(best*1000) / 1000})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// fuzzyScore max(Jaro-Winkler, 1 - levenshtein/maxLen)
func fuzzyScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	maxLen := math.Max(float64(utf8.RuneCountInString(a)), float64(utf8.RuneCountInString(b)))
	lev := 1.0 - float64(levenshtein.ComputeDistance(a, b))/maxLen

	return math.Max(jw, lev)
}
