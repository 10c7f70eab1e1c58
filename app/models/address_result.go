package models

import (
	"strings"
)

// MatchCandidate ứng viên khớp tốt nhất ở một cấp
type MatchCandidate struct {
	Node       GeoNode `json:"node"`
	Confidence float64 `json:"confidence"`         // [0,1]
	Fallback   bool    `json:"fallback,omitempty"` // tìm trên toàn bộ cấp vì không khớp trong phạm vi cha
}

// SegmentedAddress kết quả tách địa chỉ, mọi trường có thể rỗng
type SegmentedAddress struct {
	Street   string `json:"street"`
	Ward     string `json:"ward,omitempty"`
	District string `json:"district,omitempty"`
	Province string `json:"province,omitempty"`
}

// AddressResolution kết quả chuẩn hóa địa chỉ 3 cấp
type AddressResolution struct {
	Province          *MatchCandidate           `json:"province"`
	District          *MatchCandidate           `json:"district"`
	Ward              *MatchCandidate           `json:"ward"`
	Street            string                    `json:"street,omitempty"`
	NormalizedAddress string                    `json:"normalized_address"`
	IsValid           bool                      `json:"is_valid"` // province và district đều khớp
	Segments          SegmentedAddress          `json:"segments"`
	SnapshotVersion   string                    `json:"snapshot_version,omitempty"`
	Suggestions       map[Tier][]MatchCandidate `json:"suggestions,omitempty"`
}

// QuoteLocation tạo vị trí báo giá từ các node đã khớp
func (r *AddressResolution) QuoteLocation() QuoteLocation {
	var loc QuoteLocation
	if r.Province != nil {
		loc.Province = r.Province.Node.Ref()
	}
	if r.District != nil {
		loc.District = r.District.Node.Ref()
	}
	if r.Ward != nil {
		loc.Ward = r.Ward.Node.Ref()
	}
	return loc
}

// Ref tham chiếu gọn tới node để gửi cho hãng vận chuyển
func (n GeoNode) Ref() GeoRef {
	return GeoRef{ExternalID: n.ExternalID, Name: n.Name}
}

// BuildNormalizedAddress ghép street + tên hiển thị, cấp không khớp dùng text gốc
func BuildNormalizedAddress(street string, seg SegmentedAddress, ward, district, province *MatchCandidate) string {
	parts := make([]string, 0, 4)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	pick := func(c *MatchCandidate, raw string) string {
		if c != nil {
			return c.Node.Name
		}
		return raw
	}

	add(street)
	add(pick(ward, seg.Ward))
	add(pick(district, seg.District))
	add(pick(province, seg.Province))
	return strings.Join(parts, ", ")
}
