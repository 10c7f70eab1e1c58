package parser

import (
	"context"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/geo"
	"github.com/address-shipping/internal/normalizer"
	"go.uber.org/zap"
)

// SnapshotProvider nguồn snapshot địa giới (geo.Store)
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*geo.Snapshot, error)
}

// AddressMatcher khớp text tỉnh/quận/phường với master data theo từng cấp
type AddressMatcher struct {
	provider SnapshotProvider
	logger   *zap.Logger
}

// NewAddressMatcher tạo mới AddressMatcher
func NewAddressMatcher(provider SnapshotProvider, logger *zap.Logger) *AddressMatcher {
	return &AddressMatcher{
		provider: provider,
		logger:   logger,
	}
}

// FindProvince tỉnh khớp tốt nhất, nil nếu dưới ngưỡng
func (am *AddressMatcher) FindProvince(ctx context.Context, query string) (*models.MatchCandidate, error) {
	snapshot, err := am.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return matchTier(snapshot, models.TierProvince, query, ""), nil
}

// FindDistrict quận khớp tốt nhất trong tỉnh provinceID (rỗng = toàn quốc)
func (am *AddressMatcher) FindDistrict(ctx context.Context, query, provinceID string) (*models.MatchCandidate, error) {
	snapshot, err := am.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return matchTier(snapshot, models.TierDistrict, query, provinceID), nil
}

// FindWard phường khớp tốt nhất trong quận districtID (rỗng = toàn quốc)
func (am *AddressMatcher) FindWard(ctx context.Context, query, districtID string) (*models.MatchCandidate, error) {
	snapshot, err := am.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return matchTier(snapshot, models.TierWard, query, districtID), nil
}

// ResolveAddress resolve từ trên xuống: tỉnh, quận trong tỉnh, phường trong quận.
// Chỉ lỗi khi không lấy được dữ liệu địa giới.
func (am *AddressMatcher) ResolveAddress(ctx context.Context, provinceText, districtText, wardText string) (*models.AddressResolution, error) {
	return am.Resolve(ctx, models.SegmentedAddress{
		Province: provinceText,
		District: districtText,
		Ward:     wardText,
	})
}

// Resolve như ResolveAddress, kèm phần street
func (am *AddressMatcher) Resolve(ctx context.Context, seg models.SegmentedAddress) (*models.AddressResolution, error) {
	snapshot, err := am.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	res := resolveWith(snapshot, seg)
	am.logger.Debug("Resolve địa chỉ",
		zap.String("normalized", res.NormalizedAddress),
		zap.Bool("is_valid", res.IsValid))
	return res, nil
}

// resolveWith mọi cấp đọc cùng một snapshot
func resolveWith(snapshot *geo.Snapshot, seg models.SegmentedAddress) *models.AddressResolution {
	res := &models.AddressResolution{
		Street:          seg.Street,
		Segments:        seg,
		SnapshotVersion: snapshot.Version,
	}

	res.Province = matchTier(snapshot, models.TierProvince, seg.Province, "")

	provinceID := ""
	if res.Province != nil {
		provinceID = res.Province.Node.ID
	}
	res.District = matchTier(snapshot, models.TierDistrict, seg.District, provinceID)

	if seg.Ward != "" {
		districtID := ""
		if res.District != nil {
			districtID = res.District.Node.ID
		}
		res.Ward = matchTier(snapshot, models.TierWard, seg.Ward, districtID)
	}

	res.IsValid = res.Province != nil && res.District != nil
	res.NormalizedAddress = models.BuildNormalizedAddress(seg.Street, seg, res.Ward, res.District, res.Province)
	return res
}

// matchQuery query đã chuẩn hóa và dạng bỏ tiền tố loại đơn vị
type matchQuery struct {
	full string
	bare string
}

func newMatchQuery(text string) (matchQuery, bool) {
	q := normalizer.Canonical(text)
	if q == "" {
		return matchQuery{}, false
	}
	return matchQuery{full: q, bare: normalizer.BareForm(text)}, true
}

// matchTier tìm trong phạm vi cha trước; nếu không khớp thì mở rộng ra toàn bộ cấp
// và đánh dấu Fallback.
func matchTier(snapshot *geo.Snapshot, tier models.Tier, query, parentID string) *models.MatchCandidate {
	q, ok := newMatchQuery(query)
	if !ok {
		return nil
	}

	if parentID == "" {
		return bestCandidate(snapshot.Entries(tier, ""), q)
	}
	if c := bestCandidate(snapshot.Entries(tier, parentID), q); c != nil {
		return c
	}
	if c := bestCandidate(snapshot.Entries(tier, ""), q); c != nil {
		c.Fallback = true
		return c
	}
	return nil
}

// bestCandidate entry điểm cao nhất, hòa điểm thì giữ entry gặp trước
func bestCandidate(entries []*geo.Entry, q matchQuery) *models.MatchCandidate {
	var best *geo.Entry
	bestScore := 0.0
	for _, e := range entries {
		if s := scoreEntry(e, q); s > bestScore {
			best, bestScore = e, s
			if s == ExactScore {
				break
			}
		}
	}

	if best == nil || bestScore < AcceptanceThreshold {
		return nil
	}
	return &models.MatchCandidate{Node: best.Node, Confidence: bestScore}
}

// scoreEntry điểm cao nhất giữa query và tên/alternate names.
// "Phường Bến Nghé" và "Bến Nghé" coi là khớp tuyệt đối.
func scoreEntry(e *geo.Entry, q matchQuery) float64 {
	for _, b := range e.Bare {
		if b == q.bare {
			return ExactScore
		}
	}

	best := 0.0
	for _, k := range e.Keys {
		if s := ScoreNormalized(q.full, k); s > best {
			best = s
		}
	}
	return best
}
