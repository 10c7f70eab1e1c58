package carriers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func sampleRequest() models.ShipmentQuoteRequest {
	return models.ShipmentQuoteRequest{
		Origin: models.QuoteLocation{
			Province: models.GeoRef{ExternalID: "202", Name: "Hồ Chí Minh"},
			District: models.GeoRef{ExternalID: "1442", Name: "Quận 1"},
			Ward:     models.GeoRef{ExternalID: "20109", Name: "Bến Nghé"},
		},
		Destination: models.QuoteLocation{
			Province: models.GeoRef{ExternalID: "201", Name: "Hà Nội"},
			District: models.GeoRef{ExternalID: "1484", Name: "Quận Ba Đình"},
			Ward:     models.GeoRef{ExternalID: "1A0101", Name: "Phường Phúc Xá"},
		},
		WeightGrams:    500,
		Dimensions:     &models.Dimensions{Length: 20, Width: 15, Height: 10},
		InsuranceValue: 1000000,
		CODAmount:      250000,
	}
}

type denyLimiter struct {
	keys []string
	err  error
}

func (d *denyLimiter) Allow(ctx context.Context, key string) (bool, error) {
	d.keys = append(d.keys, key)
	if d.err != nil {
		return false, d.err
	}
	return false, nil
}

func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCallerFrom(t *testing.T) {
	assert.Equal(t, "anonymous", CallerFrom(context.Background()))
	assert.Equal(t, "1.2.3.4", CallerFrom(WithCaller(context.Background(), "1.2.3.4")))
	assert.Equal(t, "anonymous", CallerFrom(WithCaller(context.Background(), "")))
}

func TestAdapters_RateLimitedWithoutNetworkCall(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})

	limiter := &denyLimiter{}
	cfg := Config{BaseURL: srv.URL, Token: "t"}
	adapters := []Adapter{
		NewGHN(cfg, limiter, zap.NewNop()),
		NewGHTK(cfg, limiter, zap.NewNop()),
		NewVTP(cfg, limiter, zap.NewNop()),
	}

	ctx := WithCaller(context.Background(), "10.0.0.1")
	for _, a := range adapters {
		q := a.GetQuote(ctx, sampleRequest())
		assert.False(t, q.Success, a.Name())
		assert.Equal(t, models.ErrorKindRateLimited, q.ErrorKind, a.Name())
		assert.Equal(t, a.Name(), q.Carrier)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, []string{"ghn:10.0.0.1", "ghtk:10.0.0.1", "vtp:10.0.0.1"}, limiter.keys)
}

func TestAdapters_LimiterErrorFailsOpen(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"fee":     map[string]interface{}{"fee": 30000, "delivery": true},
		})
	})

	g := NewGHTK(Config{BaseURL: srv.URL}, &denyLimiter{err: errors.New("redis down")}, zap.NewNop())
	q := g.GetQuote(context.Background(), sampleRequest())

	assert.True(t, q.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestAdapters_InvalidRequestWithoutNetworkCall(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})
	cfg := Config{BaseURL: srv.URL}

	testCases := []struct {
		name   string
		mutate func(r *models.ShipmentQuoteRequest)
	}{
		{name: "zero weight", mutate: func(r *models.ShipmentQuoteRequest) { r.WeightGrams = 0 }},
		{name: "missing destination ward", mutate: func(r *models.ShipmentQuoteRequest) { r.Destination.Ward = models.GeoRef{} }},
		{name: "missing origin district", mutate: func(r *models.ShipmentQuoteRequest) { r.Origin.District = models.GeoRef{} }},
		{name: "negative cod", mutate: func(r *models.ShipmentQuoteRequest) { r.CODAmount = -1 }},
		{name: "negative dimensions", mutate: func(r *models.ShipmentQuoteRequest) {
			r.Dimensions = &models.Dimensions{Length: 20, Width: -5, Height: 10}
		}},
	}

	for _, a := range []Adapter{NewGHN(cfg, nil, zap.NewNop()), NewGHTK(cfg, nil, zap.NewNop()), NewVTP(cfg, nil, zap.NewNop())} {
		for _, tc := range testCases {
			t.Run(a.Name()+"/"+tc.name, func(t *testing.T) {
				req := sampleRequest()
				tc.mutate(&req)
				q := a.GetQuote(context.Background(), req)
				assert.False(t, q.Success)
				assert.Equal(t, models.ErrorKindInvalidRequest, q.ErrorKind)
			})
		}
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestAdapters_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := NewGHN(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, zap.NewNop())
	q := g.GetQuote(context.Background(), sampleRequest())

	assert.False(t, q.Success)
	assert.Equal(t, models.ErrorKindTimeout, q.ErrorKind)
}

func TestAdapters_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	q := NewVTP(Config{BaseURL: url}, nil, zap.NewNop()).GetQuote(context.Background(), sampleRequest())
	assert.False(t, q.Success)
	assert.Equal(t, models.ErrorKindTransport, q.ErrorKind)
}
