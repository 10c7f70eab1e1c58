package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/app/requests"
	"github.com/address-shipping/internal/quote"
	"go.uber.org/zap"
)

var (
	ErrInvalidShipment   = errors.New("yêu cầu báo giá không hợp lệ")
	ErrUnresolvedAddress = errors.New("không chuẩn hóa được địa chỉ")
	ErrUnknownCarrier    = errors.New("hãng vận chuyển không hỗ trợ")
)

// QuoteOutcome vị trí đã dùng và kết quả báo giá
type QuoteOutcome struct {
	Origin      models.QuoteLocation
	Destination models.QuoteLocation
	Result      models.QuoteResult
}

// QuoteService chuẩn hóa điểm lấy/giao rồi gọi aggregator
type QuoteService struct {
	addresses  *AddressService
	aggregator *quote.Aggregator
	logger     *zap.Logger
}

func NewQuoteService(addresses *AddressService, aggregator *quote.Aggregator, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		addresses:  addresses,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Carriers tên các hãng đang bật
func (qs *QuoteService) Carriers() []string {
	return qs.aggregator.Carriers()
}

// Quote báo giá từ request HTTP: địa chỉ thô được parse trước
func (qs *QuoteService) Quote(ctx context.Context, req requests.QuoteRequest) (*QuoteOutcome, error) {
	shipment := req.Shipment()

	origin, err := qs.location(ctx, "origin", req.Origin, req.OriginAddress)
	if err != nil {
		return nil, err
	}
	destination, err := qs.location(ctx, "destination", req.Destination, req.DestinationAddress)
	if err != nil {
		return nil, err
	}
	shipment.Origin, shipment.Destination = origin, destination

	result, err := qs.QuoteShipment(ctx, shipment, req.Carriers)
	if err != nil {
		return nil, err
	}
	return &QuoteOutcome{Origin: origin, Destination: destination, Result: result}, nil
}

// QuoteShipment báo giá cho vị trí đã chuẩn hóa
func (qs *QuoteService) QuoteShipment(ctx context.Context, shipment models.ShipmentQuoteRequest, carrierNames []string) (models.QuoteResult, error) {
	if err := validateShipment(shipment); err != nil {
		return models.QuoteResult{}, err
	}
	adapters, err := qs.aggregator.Select(carrierNames)
	if err != nil {
		return models.QuoteResult{}, fmt.Errorf("%w: %w", ErrUnknownCarrier, err)
	}
	if len(adapters) == 0 {
		return models.QuoteResult{}, fmt.Errorf("%w: chưa cấu hình hãng nào", ErrUnknownCarrier)
	}
	return qs.aggregator.GetAllQuotes(ctx, shipment, adapters...), nil
}

// location lấy vị trí có sẵn hoặc parse từ địa chỉ thô
func (qs *QuoteService) location(ctx context.Context, side string, loc *models.QuoteLocation, raw string) (models.QuoteLocation, error) {
	if loc != nil {
		return *loc, nil
	}
	if strings.TrimSpace(raw) == "" {
		return models.QuoteLocation{}, fmt.Errorf("%w: thiếu %s hoặc %s_address", ErrInvalidShipment, side, side)
	}

	resolution, _, err := qs.addresses.ParseAddress(ctx, raw, requests.ParseOptions{UseCache: true})
	if err != nil {
		return models.QuoteLocation{}, err
	}
	if !resolution.IsValid {
		return models.QuoteLocation{}, fmt.Errorf("%w: %s %q", ErrUnresolvedAddress, side, raw)
	}
	if side == "destination" && resolution.Ward == nil {
		return models.QuoteLocation{}, fmt.Errorf("%w: destination thiếu phường/xã %q", ErrUnresolvedAddress, raw)
	}

	qs.logger.Debug("Đã chuẩn hóa địa chỉ báo giá",
		zap.String("side", side),
		zap.String("normalized", resolution.NormalizedAddress))
	return resolution.QuoteLocation(), nil
}

func validateShipment(s models.ShipmentQuoteRequest) error {
	switch {
	case s.WeightGrams <= 0:
		return fmt.Errorf("%w: weight_grams phải > 0", ErrInvalidShipment)
	case s.Origin.District.IsZero():
		return fmt.Errorf("%w: thiếu quận/huyện lấy hàng", ErrInvalidShipment)
	case s.Destination.District.IsZero() || s.Destination.Ward.IsZero():
		return fmt.Errorf("%w: thiếu quận/huyện hoặc phường/xã giao hàng", ErrInvalidShipment)
	case s.InsuranceValue < 0 || s.CODAmount < 0:
		return fmt.Errorf("%w: insurance_value và cod_amount không được âm", ErrInvalidShipment)
	case s.Dimensions != nil && (s.Dimensions.Length < 0 || s.Dimensions.Width < 0 || s.Dimensions.Height < 0):
		return fmt.Errorf("%w: kích thước kiện hàng không được âm", ErrInvalidShipment)
	}
	return nil
}
