package carriers

import (
	"context"
	"fmt"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/ratelimit"
	"go.uber.org/zap"
)

const ghnFeePath = "/shiip/public-api/v2/shipping-order/fee"

// ghnStandardService gói dịch vụ chuẩn (E-commerce Delivery)
const ghnStandardService = 2

// GHN adapter Giao Hàng Nhanh
type GHN struct {
	base
	shopID string
}

type ghnFeeRequest struct {
	FromDistrictID int    `json:"from_district_id"`
	FromWardCode   string `json:"from_ward_code,omitempty"`
	ToDistrictID   int    `json:"to_district_id"`
	ToWardCode     string `json:"to_ward_code"`
	ServiceTypeID  int    `json:"service_type_id"`
	Weight         int    `json:"weight"`
	Length         int    `json:"length,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	InsuranceValue int64  `json:"insurance_value"`
	CODValue       int64  `json:"cod_value"`
}

type ghnFeeResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Total              float64 `json:"total"`
		ServiceFee         float64 `json:"service_fee"`
		InsuranceFee       float64 `json:"insurance_fee"`
		PickStationFee     float64 `json:"pick_station_fee"`
		CouponValue        float64 `json:"coupon_value"`
		R2SFee             float64 `json:"r2s_fee"`
		CODFee             float64 `json:"cod_fee"`
		DeliverRemoteFee   float64 `json:"deliver_remote_areas_fee"`
		PickRemoteAreasFee float64 `json:"pick_remote_areas_fee"`
	} `json:"data"`
}

// NewGHN tạo adapter GHN; ShopID gửi qua header ShopId
func NewGHN(cfg Config, limiter ratelimit.Limiter, logger *zap.Logger) *GHN {
	return &GHN{
		base:   newBase(NameGHN, cfg, limiter, logger),
		shopID: cfg.ShopID,
	}
}

func (g *GHN) buildRequest(req models.ShipmentQuoteRequest) (*ghnFeeRequest, error) {
	if err := validateCommon(req); err != nil {
		return nil, err
	}
	fromDistrict, err := numericID("origin district", req.Origin.District)
	if err != nil {
		return nil, err
	}
	toDistrict, err := numericID("destination district", req.Destination.District)
	if err != nil {
		return nil, err
	}
	if req.Destination.Ward.ExternalID == "" {
		return nil, fmt.Errorf("destination ward: ward code required")
	}

	body := &ghnFeeRequest{
		FromDistrictID: fromDistrict,
		FromWardCode:   req.Origin.Ward.ExternalID,
		ToDistrictID:   toDistrict,
		ToWardCode:     req.Destination.Ward.ExternalID,
		ServiceTypeID:  ghnStandardService,
		Weight:         req.WeightGrams,
		InsuranceValue: req.InsuranceValue,
		CODValue:       req.CODAmount,
	}
	if d := req.Dimensions; d != nil {
		body.Length, body.Width, body.Height = d.Length, d.Width, d.Height
	}
	return body, nil
}

// GetQuote gọi API tính phí GHN
func (g *GHN) GetQuote(ctx context.Context, req models.ShipmentQuoteRequest) models.CarrierQuote {
	body, err := g.buildRequest(req)
	if err != nil {
		return g.invalid(err)
	}
	if q, limited := g.throttle(ctx); limited {
		return q
	}

	g.logger.Debug("Gửi yêu cầu báo giá", zap.Int("to_district_id", body.ToDistrictID))
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("ShopId", g.shopID).
		SetBody(body).
		Post(ghnFeePath)
	if q, failed := g.checkTransport(resp, err); failed {
		return q
	}

	var out ghnFeeResponse
	if q, failed := g.decode(resp, &out); failed {
		return q
	}
	if out.Code != 200 || out.Data == nil {
		return g.business(out.Message)
	}

	d := out.Data
	return models.CarrierQuote{
		Carrier: g.name,
		Success: true,
		Fee:     d.Total,
		FeeBreakdown: nonZero(map[string]float64{
			"service":      d.ServiceFee,
			"insurance":    d.InsuranceFee,
			"pick_station": d.PickStationFee,
			"coupon":       -d.CouponValue,
			"r2s":          d.R2SFee,
			"cod":          d.CODFee,
			"remote_areas": d.DeliverRemoteFee + d.PickRemoteAreasFee,
		}),
	}
}
