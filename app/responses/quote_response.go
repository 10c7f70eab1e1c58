package responses

import "github.com/address-shipping/app/models"

// QuoteResponse response báo giá; origin/destination là vị trí đã dùng để gọi hãng
type QuoteResponse struct {
	Success     bool                  `json:"success"`
	Origin      models.QuoteLocation  `json:"origin"`
	Destination models.QuoteLocation  `json:"destination"`
	Quotes      []models.CarrierQuote `json:"quotes"`
	Failures    []models.CarrierQuote `json:"failures"`
}

// CarriersResponse danh sách hãng đang bật
type CarriersResponse struct {
	Carriers []string `json:"carriers"`
}
