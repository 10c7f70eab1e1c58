// Package quote gọi song song nhiều hãng vận chuyển và gom kết quả báo giá.
package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/carriers"
	"go.uber.org/zap"
)

// DefaultAdapterTimeout trần thời gian cho mỗi hãng
const DefaultAdapterTimeout = 10 * time.Second

// Aggregator fan-out yêu cầu báo giá tới các adapter đã cấu hình
type Aggregator struct {
	adapters []carriers.Adapter
	byName   map[string]carriers.Adapter
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAggregator tạo Aggregator; timeout <= 0 dùng DefaultAdapterTimeout
func NewAggregator(adapters []carriers.Adapter, timeout time.Duration, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultAdapterTimeout
	}
	byName := make(map[string]carriers.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &Aggregator{
		adapters: adapters,
		byName:   byName,
		timeout:  timeout,
		logger:   logger,
	}
}

// Carriers tên các hãng đã cấu hình, theo thứ tự đăng ký
func (ag *Aggregator) Carriers() []string {
	names := make([]string, 0, len(ag.adapters))
	for _, a := range ag.adapters {
		names = append(names, a.Name())
	}
	return names
}

// Select chọn adapter theo tên. Danh sách rỗng trả về toàn bộ.
func (ag *Aggregator) Select(names []string) ([]carriers.Adapter, error) {
	if len(names) == 0 {
		return ag.adapters, nil
	}
	selected := make([]carriers.Adapter, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		a, ok := ag.byName[name]
		if !ok {
			return nil, fmt.Errorf("hãng vận chuyển không hỗ trợ: %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		selected = append(selected, a)
	}
	return selected, nil
}

// GetAllQuotes gọi mọi adapter đồng thời và chờ tất cả kết thúc. Lỗi của một
// hãng không ảnh hưởng các hãng còn lại. Quotes và Failures giữ thứ tự gọi.
func (ag *Aggregator) GetAllQuotes(ctx context.Context, req models.ShipmentQuoteRequest, adapters ...carriers.Adapter) models.QuoteResult {
	if len(adapters) == 0 {
		adapters = ag.adapters
	}

	start := time.Now()
	outcomes := make([]models.CarrierQuote, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a carriers.Adapter) {
			defer wg.Done()
			outcomes[i] = ag.callAdapter(ctx, a, req)
		}(i, a)
	}
	wg.Wait()

	result := models.QuoteResult{
		Quotes:   []models.CarrierQuote{},
		Failures: []models.CarrierQuote{},
	}
	for _, q := range outcomes {
		if q.Success {
			result.Quotes = append(result.Quotes, q)
		} else {
			result.Failures = append(result.Failures, q)
		}
	}

	ag.logger.Info("Hoàn tất báo giá",
		zap.Int("carriers", len(adapters)),
		zap.Int("quotes", len(result.Quotes)),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("duration", time.Since(start)))
	return result
}

// callAdapter chạy một adapter với trần thời gian riêng. Adapter chạy quá trần
// bị ghi nhận timeout; goroutine của nó kết thúc khi ctx bị hủy.
// Client hủy request (parent ctx bị cancel) thì ghi nhận lỗi transport, không phải timeout.
func (ag *Aggregator) callAdapter(parent context.Context, a carriers.Adapter, req models.ShipmentQuoteRequest) models.CarrierQuote {
	name := a.Name()
	ctx, cancel := context.WithTimeout(parent, ag.timeout)
	defer cancel()

	done := make(chan models.CarrierQuote, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ag.logger.Error("Adapter panic", zap.String("carrier", name), zap.Any("panic", r))
				done <- models.FailedQuote(name, models.ErrorKindTransport, fmt.Sprintf("adapter panic: %v", r))
			}
		}()
		done <- a.GetQuote(ctx, req)
	}()

	select {
	case q := <-done:
		if q.Carrier == "" {
			q.Carrier = name
		}
		if !q.Success && errors.Is(parent.Err(), context.Canceled) {
			return ag.cancelled(name)
		}
		return q
	case <-ctx.Done():
		if errors.Is(parent.Err(), context.Canceled) {
			return ag.cancelled(name)
		}
		if errors.Is(parent.Err(), context.DeadlineExceeded) {
			ag.logger.Warn("Hết hạn request trước khi hãng trả lời", zap.String("carrier", name))
			return models.FailedQuote(name, models.ErrorKindTimeout, "request deadline exceeded")
		}
		ag.logger.Warn("Hãng vượt quá thời gian chờ", zap.String("carrier", name), zap.Duration("timeout", ag.timeout))
		return models.FailedQuote(name, models.ErrorKindTimeout, fmt.Sprintf("no response within %s", ag.timeout))
	}
}

func (ag *Aggregator) cancelled(name string) models.CarrierQuote {
	ag.logger.Info("Request báo giá bị hủy", zap.String("carrier", name))
	return models.FailedQuote(name, models.ErrorKindTransport, "request cancelled")
}
