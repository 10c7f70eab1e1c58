package geo

import (
	"context"

	"github.com/address-shipping/app/models"
)

// Data toàn bộ địa giới 3 cấp, load trong một lần
type Data struct {
	Provinces []models.GeoNode `json:"provinces" yaml:"provinces"`
	Districts []models.GeoNode `json:"districts" yaml:"districts"`
	Wards     []models.GeoNode `json:"wards" yaml:"wards"`
}

// Source nguồn dữ liệu địa giới (MongoDB, file...)
type Source interface {
	Load(ctx context.Context) (Data, error)
}

// SourceFunc adapter cho phép dùng hàm làm Source
type SourceFunc func(ctx context.Context) (Data, error)

func (f SourceFunc) Load(ctx context.Context) (Data, error) {
	return f(ctx)
}
