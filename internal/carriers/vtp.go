package carriers

import (
	"context"
	"math"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/ratelimit"
	"go.uber.org/zap"
)

const vtpPricePath = "/v2/order/getPrice"

// VTP adapter Viettel Post
type VTP struct {
	base
}

type vtpPriceRequest struct {
	SenderProvince   int    `json:"SENDER_PROVINCE"`
	SenderDistrict   int    `json:"SENDER_DISTRICT"`
	ReceiverProvince int    `json:"RECEIVER_PROVINCE"`
	ReceiverDistrict int    `json:"RECEIVER_DISTRICT"`
	ProductType      string `json:"PRODUCT_TYPE"`
	OrderService     string `json:"ORDER_SERVICE"`
	ProductWeight    int    `json:"PRODUCT_WEIGHT"`
	ProductPrice     int64  `json:"PRODUCT_PRICE"`
	MoneyCollection  int64  `json:"MONEY_COLLECTION"`
	ProductLength    int    `json:"PRODUCT_LENGTH,omitempty"`
	ProductWidth     int    `json:"PRODUCT_WIDTH,omitempty"`
	ProductHeight    int    `json:"PRODUCT_HEIGHT,omitempty"`
	NationalType     int    `json:"NATIONAL_TYPE"`
}

type vtpPriceResponse struct {
	Status  int    `json:"status"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    *struct {
		MoneyTotal         float64 `json:"MONEY_TOTAL"`
		MoneyTotalFee      float64 `json:"MONEY_TOTAL_FEE"`
		MoneyFee           float64 `json:"MONEY_FEE"`
		MoneyCollectionFee float64 `json:"MONEY_COLLECTION_FEE"`
		MoneyFeeVAT        float64 `json:"MONEY_VAT"`
		KPIHours           float64 `json:"KPI_HT"`
	} `json:"data"`
}

func NewVTP(cfg Config, limiter ratelimit.Limiter, logger *zap.Logger) *VTP {
	return &VTP{base: newBase(NameVTP, cfg, limiter, logger)}
}

func (v *VTP) buildRequest(req models.ShipmentQuoteRequest) (*vtpPriceRequest, error) {
	if err := validateCommon(req); err != nil {
		return nil, err
	}

	ids := make([]int, 4)
	refs := []struct {
		field string
		ref   models.GeoRef
	}{
		{"origin province", req.Origin.Province},
		{"origin district", req.Origin.District},
		{"destination province", req.Destination.Province},
		{"destination district", req.Destination.District},
	}
	for i, r := range refs {
		id, err := numericID(r.field, r.ref)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	body := &vtpPriceRequest{
		SenderProvince:   ids[0],
		SenderDistrict:   ids[1],
		ReceiverProvince: ids[2],
		ReceiverDistrict: ids[3],
		ProductType:      "HH",  // hàng hóa
		OrderService:     "VCN", // chuyển phát nhanh
		ProductWeight:    req.WeightGrams,
		ProductPrice:     req.InsuranceValue,
		MoneyCollection:  req.CODAmount,
		NationalType:     1,
	}
	if d := req.Dimensions; d != nil {
		body.ProductLength, body.ProductWidth, body.ProductHeight = d.Length, d.Width, d.Height
	}
	return body, nil
}

// GetQuote gọi API tính giá Viettel Post
func (v *VTP) GetQuote(ctx context.Context, req models.ShipmentQuoteRequest) models.CarrierQuote {
	body, err := v.buildRequest(req)
	if err != nil {
		return v.invalid(err)
	}
	if q, limited := v.throttle(ctx); limited {
		return q
	}

	v.logger.Debug("Gửi yêu cầu báo giá", zap.Int("receiver_district", body.ReceiverDistrict))
	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(vtpPricePath)
	if q, failed := v.checkTransport(resp, err); failed {
		return q
	}

	var out vtpPriceResponse
	if q, failed := v.decode(resp, &out); failed {
		return q
	}
	if out.Error || out.Status != 200 || out.Data == nil {
		return v.business(out.Message)
	}

	d := out.Data
	quote := models.CarrierQuote{
		Carrier: v.name,
		Success: true,
		Fee:     d.MoneyTotal,
		FeeBreakdown: nonZero(map[string]float64{
			"service": d.MoneyFee,
			"cod":     d.MoneyCollectionFee,
			"vat":     d.MoneyFeeVAT,
		}),
	}
	if d.KPIHours > 0 {
		quote.EstimatedDays = int(math.Ceil(d.KPIHours / 24))
	}
	return quote
}
