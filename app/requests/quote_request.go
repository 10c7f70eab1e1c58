package requests

import "github.com/address-shipping/app/models"

// QuoteRequest request báo giá. Mỗi đầu (origin/destination) truyền một trong
// hai: vị trí đã chuẩn hóa hoặc địa chỉ thô để service tự parse.
type QuoteRequest struct {
	Origin             *models.QuoteLocation `json:"origin,omitempty"`
	Destination        *models.QuoteLocation `json:"destination,omitempty"`
	OriginAddress      string                `json:"origin_address,omitempty"`
	DestinationAddress string                `json:"destination_address,omitempty"`
	WeightGrams        int                   `json:"weight_grams" binding:"required,gt=0"`
	Dimensions         *models.Dimensions    `json:"dimensions,omitempty"`
	InsuranceValue     int64                 `json:"insurance_value,omitempty" binding:"gte=0"`
	CODAmount          int64                 `json:"cod_amount,omitempty" binding:"gte=0"`
	Carriers           []string              `json:"carriers,omitempty"` // rỗng = tất cả hãng đã cấu hình
}

// Shipment phần hàng hóa của request, chưa có vị trí
func (r *QuoteRequest) Shipment() models.ShipmentQuoteRequest {
	return models.ShipmentQuoteRequest{
		WeightGrams:    r.WeightGrams,
		Dimensions:     r.Dimensions,
		InsuranceValue: r.InsuranceValue,
		CODAmount:      r.CODAmount,
	}
}
