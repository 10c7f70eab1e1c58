package carriers

import (
	"context"
	"strconv"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/ratelimit"
	"go.uber.org/zap"
)

const ghtkFeePath = "/services/shipment/fee"

// GHTK adapter Giao Hàng Tiết Kiệm, định danh địa chỉ bằng tên
type GHTK struct {
	base
}

type ghtkFeeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Fee     *struct {
		Name         string  `json:"name"`
		Fee          float64 `json:"fee"`
		InsuranceFee float64 `json:"insurance_fee"`
		Delivery     bool    `json:"delivery"`
	} `json:"fee"`
}

func NewGHTK(cfg Config, limiter ratelimit.Limiter, logger *zap.Logger) *GHTK {
	return &GHTK{base: newBase(NameGHTK, cfg, limiter, logger)}
}

func (g *GHTK) buildParams(req models.ShipmentQuoteRequest) (map[string]string, error) {
	if err := validateCommon(req); err != nil {
		return nil, err
	}
	checks := []struct {
		field string
		ref   models.GeoRef
	}{
		{"origin province", req.Origin.Province},
		{"origin district", req.Origin.District},
		{"destination province", req.Destination.Province},
		{"destination district", req.Destination.District},
		{"destination ward", req.Destination.Ward},
	}
	for _, c := range checks {
		if err := requireName(c.field, c.ref); err != nil {
			return nil, err
		}
	}

	params := map[string]string{
		"pick_province": req.Origin.Province.Name,
		"pick_district": req.Origin.District.Name,
		"province":      req.Destination.Province.Name,
		"district":      req.Destination.District.Name,
		"ward":          req.Destination.Ward.Name,
		"weight":        strconv.Itoa(req.WeightGrams),
		"value":         strconv.FormatInt(req.InsuranceValue, 10),
	}
	if req.Origin.Ward.Name != "" {
		params["pick_ward"] = req.Origin.Ward.Name
	}
	return params, nil
}

// GetQuote gọi API tính phí GHTK
func (g *GHTK) GetQuote(ctx context.Context, req models.ShipmentQuoteRequest) models.CarrierQuote {
	params, err := g.buildParams(req)
	if err != nil {
		return g.invalid(err)
	}
	if q, limited := g.throttle(ctx); limited {
		return q
	}

	g.logger.Debug("Gửi yêu cầu báo giá", zap.String("district", params["district"]))
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(ghtkFeePath)
	if q, failed := g.checkTransport(resp, err); failed {
		return q
	}

	var out ghtkFeeResponse
	if q, failed := g.decode(resp, &out); failed {
		return q
	}
	if !out.Success || out.Fee == nil {
		return g.business(out.Message)
	}
	if !out.Fee.Delivery {
		return g.business("delivery not supported for this address")
	}

	return models.CarrierQuote{
		Carrier: g.name,
		Success: true,
		Fee:     out.Fee.Fee,
		FeeBreakdown: nonZero(map[string]float64{
			"service":   out.Fee.Fee - out.Fee.InsuranceFee,
			"insurance": out.Fee.InsuranceFee,
		}),
	}
}
