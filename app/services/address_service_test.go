package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/app/requests"
	"github.com/address-shipping/internal/geo"
	"github.com/address-shipping/internal/geo/geotest"
	"github.com/address-shipping/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAddressService(t *testing.T, source geo.Source, cache IResolutionCache) *AddressService {
	t.Helper()
	logger := zap.NewNop()
	store := geo.NewStore(source, time.Minute, logger)
	matcher := parser.NewAddressMatcher(store, logger)
	return NewAddressService(store, matcher, parser.NewAddressParser(matcher, logger), cache, logger)
}

func TestAddressService_ResolveFields(t *testing.T) {
	svc := newAddressService(t, geotest.NewStaticSource(geotest.Fixture()), nil)

	res, err := svc.ResolveFields(context.Background(), "TP.HCM", "Q1", "P. Bến Nghé")
	require.NoError(t, err)
	require.True(t, res.IsValid)
	assert.Equal(t, geotest.HoChiMinh, res.Province.Node.ID)
	assert.Equal(t, geotest.Quan1, res.District.Node.ID)
	require.NotNil(t, res.Ward)
	assert.Equal(t, geotest.BenNghe, res.Ward.Node.ID)
}

func TestAddressService_ParseAddress(t *testing.T) {
	svc := newAddressService(t, geotest.NewStaticSource(geotest.Fixture()), nil)

	_, _, err := svc.ParseAddress(context.Background(), "   ", requests.ParseOptions{})
	assert.ErrorIs(t, err, ErrEmptyAddress)

	res, hit, err := svc.ParseAddress(context.Background(), "12 Lê Lợi, Phường Bến Nghé, Quận 1, TP.HCM", requests.ParseOptions{UseCache: true})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, res.IsValid)
	assert.Equal(t, "12 Lê Lợi, Bến Nghé, Quận 1, Hồ Chí Minh", res.NormalizedAddress)
	assert.Nil(t, res.Suggestions)
}

func TestAddressService_ParseAddressCache(t *testing.T) {
	cache := NewMemoryCacheService(100, time.Minute)
	svc := newAddressService(t, geotest.NewStaticSource(geotest.Fixture()), cache)
	ctx := context.Background()
	opts := requests.ParseOptions{UseCache: true}

	first, hit, err := svc.ParseAddress(ctx, "Phường 12, Quận 10, Hồ Chí Minh", opts)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.ParseAddress(ctx, "Phường 12,  Quận 10,   Hồ Chí Minh", opts)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	_, hit, err = svc.ParseAddress(ctx, "Phường 12, Quận 10, Hồ Chí Minh", requests.ParseOptions{})
	require.NoError(t, err)
	assert.False(t, hit)

	stats, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalItems)
}

func TestAddressService_Suggestions(t *testing.T) {
	cache := NewMemoryCacheService(100, time.Minute)
	svc := newAddressService(t, geotest.NewStaticSource(geotest.Fixture()), cache)
	ctx := context.Background()
	raw := "Phường Bến Ngé, Quận 1, Hồ Chí Minh"

	res, _, err := svc.ParseAddress(ctx, raw, requests.ParseOptions{UseCache: true, ReturnCandidates: true, TopK: 2})
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Nil(t, res.Ward)

	wards := res.Suggestions[models.TierWard]
	require.NotEmpty(t, wards)
	assert.LessOrEqual(t, len(wards), 2)
	assert.Equal(t, geotest.BenNghe, wards[0].Node.ID)
	assert.NotContains(t, res.Suggestions, models.TierProvince)

	// kết quả trong cache không bị gắn gợi ý
	cached, hit, err := svc.ParseAddress(ctx, raw, requests.ParseOptions{UseCache: true})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Nil(t, cached.Suggestions)
}

func TestAddressService_ParseBatch(t *testing.T) {
	svc := newAddressService(t, geotest.NewStaticSource(geotest.Fixture()), nil)

	results, err := svc.ParseBatch(context.Background(), []string{
		"Phường Phúc Xá, Quận Ba Đình, Hà Nội",
		"không có dấu phẩy",
		"Phường Bến Ngé, Quận 1, Hồ Chí Minh",
	}, requests.ParseOptions{ReturnCandidates: true})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].IsValid)
	assert.Nil(t, results[0].Suggestions)
	assert.False(t, results[1].IsValid)
	assert.NotEmpty(t, results[2].Suggestions[models.TierWard])
}

func TestAddressService_Unavailable(t *testing.T) {
	src := geotest.NewStaticSource(geo.Data{})
	src.Err = errors.New("mongo down")
	svc := newAddressService(t, src, NewMemoryCacheService(10, time.Minute))
	ctx := context.Background()

	_, err := svc.Ready(ctx)
	assert.ErrorIs(t, err, geo.ErrUnavailable)

	_, _, err = svc.ParseAddress(ctx, "Quận 1, Hồ Chí Minh", requests.ParseOptions{UseCache: true})
	assert.ErrorIs(t, err, geo.ErrUnavailable)

	_, err = svc.ParseBatch(ctx, []string{"Quận 1, Hồ Chí Minh"}, requests.ParseOptions{})
	assert.ErrorIs(t, err, geo.ErrUnavailable)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("Quận 1,  Hồ Chí Minh ", "v1")
	assert.Equal(t, a, CacheKey("Quận 1, Hồ Chí Minh", "v1"))
	assert.NotEqual(t, a, CacheKey("Quận 1, Hồ Chí Minh", "v2"))
	assert.NotEqual(t, a, CacheKey("Quận 1 Hồ Chí Minh", "v1"))
}
