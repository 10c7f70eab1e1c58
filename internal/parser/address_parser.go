package parser

import (
	"context"
	"strings"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/geo"
	"github.com/address-shipping/internal/normalizer"
	"go.uber.org/zap"
)

// SegmentAddress tách một dòng địa chỉ theo dấu phẩy, gán từ phải sang trái
// vào tỉnh, quận, phường; phần còn lại bên trái ghép thành street.
// Không có dấu phẩy thì toàn bộ là street. Luôn trả về kết quả, không lỗi.
func SegmentAddress(raw string) models.SegmentedAddress {
	parts := splitSegments(normalizer.ExpandAbbreviations(raw))

	// "..., Việt Nam" ở cuối không phải cấp hành chính
	for len(parts) > 2 && normalizer.IsCountryName(normalizer.Normalize(parts[len(parts)-1])) {
		parts = parts[:len(parts)-1]
	}

	n := len(parts)
	switch {
	case n <= 1:
		return models.SegmentedAddress{Street: strings.TrimSpace(raw)}
	case n == 2:
		return models.SegmentedAddress{District: parts[0], Province: parts[1]}
	default:
		return models.SegmentedAddress{
			Street:   strings.Join(parts[:n-3], ", "),
			Ward:     parts[n-3],
			District: parts[n-2],
			Province: parts[n-1],
		}
	}
}

func splitSegments(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// AddressParser tách địa chỉ, áp dụng luật địa chỉ 2 cấp rồi gọi matcher
type AddressParser struct {
	matcher *AddressMatcher
	logger  *zap.Logger
}

// NewAddressParser tạo mới AddressParser
func NewAddressParser(matcher *AddressMatcher, logger *zap.Logger) *AddressParser {
	return &AddressParser{
		matcher: matcher,
		logger:  logger,
	}
}

// Parse parse một dòng địa chỉ thô
func (ap *AddressParser) Parse(ctx context.Context, raw string) (*models.AddressResolution, error) {
	snapshot, err := ap.matcher.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ap.parseWith(snapshot, raw), nil
}

// ParseBatch parse nhiều địa chỉ trên cùng một snapshot
func (ap *AddressParser) ParseBatch(ctx context.Context, raws []string) ([]*models.AddressResolution, error) {
	snapshot, err := ap.matcher.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*models.AddressResolution, len(raws))
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = ap.parseWith(snapshot, raw)
	}
	return results, nil
}

func (ap *AddressParser) parseWith(snapshot *geo.Snapshot, raw string) *models.AddressResolution {
	seg := SegmentAddress(raw)
	promoted := promote(snapshot, seg)
	if promoted != seg {
		ap.logger.Debug("Điều chỉnh phân đoạn địa chỉ",
			zap.String("raw", raw),
			zap.String("ward", promoted.Ward),
			zap.String("district", promoted.District))
	}
	return resolveWith(snapshot, promoted)
}

// promote điều chỉnh phân đoạn cho địa chỉ thiếu cấp:
//   - đoạn "quận" không khớp quận nào nhưng mang tiền tố phường/xã: thực chất là phường,
//     đoạn "phường" cũ chuyển về street;
//   - quận khớp nhưng đoạn "phường" không có tiền tố phường/xã và không khớp phường nào
//     trong quận: địa chỉ 2 cấp, đoạn đó là street.
func promote(snapshot *geo.Snapshot, seg models.SegmentedAddress) models.SegmentedAddress {
	if seg.District == "" {
		return seg
	}

	provinceID := ""
	if p := matchTier(snapshot, models.TierProvince, seg.Province, ""); p != nil {
		provinceID = p.Node.ID
	}

	dq, _ := newMatchQuery(seg.District)
	district := bestCandidate(snapshot.Entries(models.TierDistrict, provinceID), dq)
	if district == nil {
		if normalizer.HasWardType(dq.full) {
			seg.Street = joinStreet(seg.Street, seg.Ward)
			seg.Ward = seg.District
			seg.District = ""
		}
		return seg
	}

	if seg.Ward != "" && !normalizer.HasWardType(normalizer.Canonical(seg.Ward)) {
		wq, _ := newMatchQuery(seg.Ward)
		if bestCandidate(snapshot.Entries(models.TierWard, district.Node.ID), wq) == nil {
			seg.Street = joinStreet(seg.Street, seg.Ward)
			seg.Ward = ""
		}
	}
	return seg
}

func joinStreet(street, extra string) string {
	switch {
	case street == "":
		return extra
	case extra == "":
		return street
	}
	return street + ", " + extra
}
