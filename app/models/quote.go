package models

// GeoRef tham chiếu tới một đơn vị hành chính theo mã hãng vận chuyển
type GeoRef struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name,omitempty"`
}

// IsZero true nếu không có mã lẫn tên
func (g GeoRef) IsZero() bool {
	return g.ExternalID == "" && g.Name == ""
}

// QuoteLocation vị trí lấy/giao hàng đã chuẩn hóa
type QuoteLocation struct {
	Province GeoRef `json:"province"`
	District GeoRef `json:"district"`
	Ward     GeoRef `json:"ward"`
}

// Dimensions kích thước kiện hàng (cm)
type Dimensions struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ShipmentQuoteRequest yêu cầu báo giá không phụ thuộc hãng
type ShipmentQuoteRequest struct {
	Origin         QuoteLocation `json:"origin"`      // district bắt buộc, ward tùy chọn
	Destination    QuoteLocation `json:"destination"` // district và ward bắt buộc
	WeightGrams    int           `json:"weight_grams"`
	Dimensions     *Dimensions   `json:"dimensions,omitempty"`
	InsuranceValue int64         `json:"insurance_value,omitempty"`
	CODAmount      int64         `json:"cod_amount,omitempty"`
}

// Loại lỗi khi lấy báo giá
const (
	ErrorKindInvalidRequest = "invalid_request"
	ErrorKindTransport      = "transport"
	ErrorKindBusiness       = "business"
	ErrorKindRateLimited    = "rate_limited"
	ErrorKindTimeout        = "timeout"
)

// CarrierQuote kết quả báo giá của một hãng
type CarrierQuote struct {
	Carrier       string             `json:"carrier"`
	Success       bool               `json:"success"`
	Fee           float64            `json:"fee"`
	FeeBreakdown  map[string]float64 `json:"fee_breakdown,omitempty"`
	EstimatedDays int                `json:"estimated_days,omitempty"`
	ErrorKind     string             `json:"error_kind,omitempty"`
	ErrorMessage  string             `json:"error_message,omitempty"`
}

// QuoteResult kết quả tổng hợp, giữ thứ tự gọi hãng
type QuoteResult struct {
	Quotes   []CarrierQuote `json:"quotes"`
	Failures []CarrierQuote `json:"failures"`
}

// FailedQuote tạo CarrierQuote thất bại
func FailedQuote(carrier, kind, message string) CarrierQuote {
	return CarrierQuote{
		Carrier:      carrier,
		Success:      false,
		ErrorKind:    kind,
		ErrorMessage: message,
	}
}
