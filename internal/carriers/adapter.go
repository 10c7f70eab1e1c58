// Package carriers adapter báo giá cho từng hãng vận chuyển (GHN, GHTK, VTP).
// Mỗi adapter chuyển ShipmentQuoteRequest sang định dạng của hãng, gọi API
// một lần (không retry) và map kết quả về models.CarrierQuote.
package carriers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/ratelimit"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Tên hãng
const (
	NameGHN  = "ghn"
	NameGHTK = "ghtk"
	NameVTP  = "vtp"
)

const defaultTimeout = 10 * time.Second

// Adapter báo giá của một hãng. GetQuote không bao giờ panic hay trả lỗi,
// mọi thất bại nằm trong CarrierQuote.
type Adapter interface {
	Name() string
	GetQuote(ctx context.Context, req models.ShipmentQuoteRequest) models.CarrierQuote
}

// Config thông tin kết nối tới hãng
type Config struct {
	BaseURL string
	Token   string
	ShopID  string
	Timeout time.Duration
}

type callerKey struct{}

// WithCaller gắn định danh caller (IP, API key...) để rate limit theo caller
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom định danh caller trong ctx, mặc định "anonymous"
func CallerFrom(ctx context.Context) string {
	if caller, ok := ctx.Value(callerKey{}).(string); ok && caller != "" {
		return caller
	}
	return "anonymous"
}

// base phần dùng chung giữa các adapter
type base struct {
	name    string
	client  *resty.Client
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

func newBase(name string, cfg Config, limiter ratelimit.Limiter, logger *zap.Logger) base {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Token", cfg.Token)

	return base{
		name:    name,
		client:  client,
		limiter: limiter,
		logger:  logger.With(zap.String("carrier", name)),
	}
}

func (b *base) Name() string {
	return b.name
}

// throttle kiểm tra rate limit trước khi gọi hãng. Lỗi limiter thì cho qua.
func (b *base) throttle(ctx context.Context) (models.CarrierQuote, bool) {
	caller := CallerFrom(ctx)
	allowed, err := b.limiter.Allow(ctx, b.name+":"+caller)
	if err != nil {
		b.logger.Warn("Lỗi rate limiter, bỏ qua giới hạn", zap.Error(err))
		return models.CarrierQuote{}, false
	}
	if !allowed {
		b.logger.Info("Vượt rate limit", zap.String("caller", caller))
		return b.fail(models.ErrorKindRateLimited, "rate limit exceeded for "+caller), true
	}
	return models.CarrierQuote{}, false
}

func (b *base) fail(kind, message string) models.CarrierQuote {
	return models.FailedQuote(b.name, kind, message)
}

func (b *base) invalid(err error) models.CarrierQuote {
	return b.fail(models.ErrorKindInvalidRequest, err.Error())
}

// checkTransport lỗi mạng, timeout hoặc HTTP khác 2xx
func (b *base) checkTransport(resp *resty.Response, err error) (models.CarrierQuote, bool) {
	if err != nil {
		kind := models.ErrorKindTransport
		if isTimeout(err) {
			kind = models.ErrorKindTimeout
		}
		b.logger.Warn("Lỗi gọi API hãng", zap.String("kind", kind), zap.Error(err))
		return b.fail(kind, err.Error()), true
	}
	if !resp.IsSuccess() {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode())
		if m := bodyMessage(resp.Body()); m != "" {
			msg += ": " + m
		}
		b.logger.Warn("API hãng trả về lỗi HTTP", zap.Int("status", resp.StatusCode()), zap.String("message", msg))
		return b.fail(models.ErrorKindTransport, msg), true
	}
	return models.CarrierQuote{}, false
}

// decode parse body JSON, lỗi parse tính là lỗi transport
func (b *base) decode(resp *resty.Response, out interface{}) (models.CarrierQuote, bool) {
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		b.logger.Warn("Response hãng không hợp lệ", zap.Error(err))
		return b.fail(models.ErrorKindTransport, "invalid response: "+err.Error()), true
	}
	return models.CarrierQuote{}, false
}

func (b *base) business(message string) models.CarrierQuote {
	if message == "" {
		message = "rejected by carrier"
	}
	b.logger.Info("Hãng từ chối báo giá", zap.String("message", message))
	return b.fail(models.ErrorKindBusiness, message)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// bodyMessage lấy trường message từ body lỗi nếu có
func bodyMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return payload.Message
}

// validateCommon kiểm tra các trường bắt buộc chung cho mọi hãng
func validateCommon(req models.ShipmentQuoteRequest) error {
	switch {
	case req.WeightGrams <= 0:
		return errors.New("weight_grams must be positive")
	case req.Origin.District.IsZero():
		return errors.New("origin district is required")
	case req.Destination.District.IsZero():
		return errors.New("destination district is required")
	case req.Destination.Ward.IsZero():
		return errors.New("destination ward is required")
	case req.InsuranceValue < 0 || req.CODAmount < 0:
		return errors.New("insurance_value and cod_amount must not be negative")
	case req.Dimensions != nil && (req.Dimensions.Length < 0 || req.Dimensions.Width < 0 || req.Dimensions.Height < 0):
		return errors.New("dimensions must not be negative")
	}
	return nil
}

// numericID mã số của đơn vị hành chính theo hãng
func numericID(field string, ref models.GeoRef) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(ref.ExternalID))
	if err != nil {
		return 0, fmt.Errorf("%s: numeric external id required, got %q", field, ref.ExternalID)
	}
	return id, nil
}

func requireName(field string, ref models.GeoRef) error {
	if strings.TrimSpace(ref.Name) == "" {
		return fmt.Errorf("%s: name is required", field)
	}
	return nil
}

// nonZero bỏ các khoản phí bằng 0
func nonZero(fees map[string]float64) map[string]float64 {
	for k, v := range fees {
		if v == 0 {
			delete(fees, k)
		}
	}
	return fees
}
