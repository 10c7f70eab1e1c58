// Package geotest dữ liệu địa giới mẫu dùng chung cho test
package geotest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/geo"
)

// Id các node hay dùng trong test
const (
	HoChiMinh = "79"
	HaNoi     = "01"
	DaNang    = "48"

	Quan1    = "760"
	Quan10   = "771"
	CuChi    = "783"
	BaDinh   = "001"
	HoanKiem = "002"
	DongDa   = "006"
	HaiChau  = "490"

	BenNghe    = "26734"
	BenThanh   = "26737"
	Phuong12   = "27157"
	Phuong14   = "27163"
	TTCuChi    = "27493"
	PhucXa     = "00001"
	HangBac    = "00070"
	VanMieu    = "00379"
	ThachThang = "20194"
)

// Fixture địa giới thu gọn: TP.HCM, Hà Nội, Đà Nẵng
func Fixture() geo.Data {
	return geo.Data{
		Provinces: []models.GeoNode{
			{ID: HoChiMinh, ExternalID: "202", Name: "Hồ Chí Minh", AlternateNames: []string{"Thành phố Hồ Chí Minh", "Sài Gòn"}},
			{ID: HaNoi, ExternalID: "201", Name: "Hà Nội", AlternateNames: []string{"Thành phố Hà Nội"}},
			{ID: DaNang, ExternalID: "203", Name: "Đà Nẵng"},
		},
		Districts: []models.GeoNode{
			{ID: Quan1, ExternalID: "1442", Name: "Quận 1", ParentID: HoChiMinh},
			{ID: Quan10, ExternalID: "1452", Name: "Quận 10", ParentID: HoChiMinh},
			{ID: CuChi, ExternalID: "1461", Name: "Huyện Củ Chi", ParentID: HoChiMinh},
			{ID: BaDinh, ExternalID: "1484", Name: "Quận Ba Đình", ParentID: HaNoi},
			{ID: HoanKiem, ExternalID: "1489", Name: "Quận Hoàn Kiếm", ParentID: HaNoi},
			{ID: DongDa, ExternalID: "1486", Name: "Quận Đống Đa", ParentID: HaNoi},
			{ID: HaiChau, ExternalID: "1526", Name: "Quận Hải Châu", ParentID: DaNang},
		},
		Wards: []models.GeoNode{
			{ID: BenNghe, ExternalID: "20109", Name: "Bến Nghé", ParentID: Quan1},
			{ID: BenThanh, ExternalID: "20110", Name: "Bến Thành", ParentID: Quan1},
			{ID: Phuong12, ExternalID: "21012", Name: "Phường 12", ParentID: Quan10},
			{ID: Phuong14, ExternalID: "21014", Name: "Phường 14", ParentID: Quan10},
			{ID: TTCuChi, ExternalID: "220701", Name: "Thị trấn Củ Chi", ParentID: CuChi},
			{ID: PhucXa, ExternalID: "1A0101", Name: "Phường Phúc Xá", ParentID: BaDinh},
			{ID: HangBac, ExternalID: "1A0201", Name: "Phường Hàng Bạc", ParentID: HoanKiem},
			{ID: VanMieu, ExternalID: "1A0603", Name: "Phường Văn Miếu", ParentID: DongDa},
			{ID: ThachThang, ExternalID: "40101", Name: "Phường Thạch Thang", ParentID: HaiChau},
		},
	}
}

// StaticSource Source trả về dữ liệu cố định, đếm số lần Load
type StaticSource struct {
	Data  geo.Data
	Err   error
	calls atomic.Int32
}

func NewStaticSource(data geo.Data) *StaticSource {
	return &StaticSource{Data: data}
}

func (s *StaticSource) Load(ctx context.Context) (geo.Data, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return geo.Data{}, s.Err
	}
	return s.Data, nil
}

// Calls số lần Load đã được gọi
func (s *StaticSource) Calls() int {
	return int(s.calls.Load())
}

// Snapshot snapshot dựng sẵn từ Fixture
func Snapshot() *geo.Snapshot {
	return geo.NewSnapshot(Fixture(), time.Time{})
}
