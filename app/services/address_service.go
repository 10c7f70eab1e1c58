package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/app/requests"
	"github.com/address-shipping/internal/parser"
	"go.uber.org/zap"
)

// ErrEmptyAddress địa chỉ rỗng
var ErrEmptyAddress = errors.New("địa chỉ không được để trống")

// AddressService service xử lý logic chuẩn hóa địa chỉ
type AddressService struct {
	provider  parser.SnapshotProvider
	matcher   *parser.AddressMatcher
	parser    *parser.AddressParser
	cache     IResolutionCache
	logger    *zap.Logger
	startTime time.Time
}

// NewAddressService tạo mới AddressService; cache nil là tắt cache
func NewAddressService(provider parser.SnapshotProvider, matcher *parser.AddressMatcher, addressParser *parser.AddressParser, cache IResolutionCache, logger *zap.Logger) *AddressService {
	return &AddressService{
		provider:  provider,
		matcher:   matcher,
		parser:    addressParser,
		cache:     cache,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetStartTime thời điểm service khởi động
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}

// Ready lỗi nếu chưa nạp được snapshot địa giới
func (as *AddressService) Ready(ctx context.Context) (string, error) {
	snapshot, err := as.provider.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return snapshot.Version, nil
}

// ResolveFields khớp địa chỉ đã tách sẵn các cấp
func (as *AddressService) ResolveFields(ctx context.Context, province, district, ward string) (*models.AddressResolution, error) {
	return as.matcher.ResolveAddress(ctx, province, district, ward)
}

// ParseAddress parse một địa chỉ thô. Trả về thêm cờ cache hit.
func (as *AddressService) ParseAddress(ctx context.Context, raw string, options requests.ParseOptions) (*models.AddressResolution, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, false, ErrEmptyAddress
	}

	useCache := options.UseCache && as.cache != nil
	var key string
	if useCache {
		version, err := as.Ready(ctx)
		if err != nil {
			return nil, false, err
		}
		key = CacheKey(raw, version)
		cached, found, err := as.cache.Get(ctx, key)
		if err != nil {
			as.logger.Warn("Lỗi đọc cache, parse trực tiếp", zap.Error(err))
		} else if found {
			result, err := as.withSuggestions(ctx, cached, options)
			return result, true, err
		}
	}

	result, err := as.parser.Parse(ctx, raw)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		// snapshot có thể đã đổi giữa lúc tra cache và lúc parse
		key = CacheKey(raw, result.SnapshotVersion)
		if err := as.cache.Set(ctx, key, result); err != nil {
			as.logger.Warn("Lỗi lưu cache", zap.Error(err))
		}
	}

	result, err = as.withSuggestions(ctx, result, options)
	return result, false, err
}

// ParseBatch parse nhiều địa chỉ, giữ nguyên thứ tự
func (as *AddressService) ParseBatch(ctx context.Context, raws []string, options requests.ParseOptions) ([]*models.AddressResolution, error) {
	results, err := as.parser.ParseBatch(ctx, raws)
	if err != nil {
		return nil, err
	}
	if !options.ReturnCandidates {
		return results, nil
	}
	for i, r := range results {
		if results[i], err = as.withSuggestions(ctx, r, options); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// withSuggestions gắn gợi ý cho các cấp có text nhưng không khớp.
// Trả về bản sao để không sửa kết quả đang nằm trong cache.
func (as *AddressService) withSuggestions(ctx context.Context, result *models.AddressResolution, options requests.ParseOptions) (*models.AddressResolution, error) {
	if !options.ReturnCandidates {
		return result, nil
	}

	out := *result
	out.Suggestions = make(map[models.Tier][]models.MatchCandidate)
	seg := result.Segments

	add := func(tier models.Tier, matched *models.MatchCandidate, text string, parent *models.MatchCandidate) error {
		if matched != nil || strings.TrimSpace(text) == "" {
			return nil
		}
		parentID := ""
		if parent != nil {
			parentID = parent.Node.ID
		}
		candidates, err := as.matcher.Suggest(ctx, tier, text, parentID, options.TopK)
		if err != nil {
			return err
		}
		if len(candidates) > 0 {
			out.Suggestions[tier] = candidates
		}
		return nil
	}

	if err := add(models.TierProvince, result.Province, seg.Province, nil); err != nil {
		return nil, err
	}
	if err := add(models.TierDistrict, result.District, seg.District, result.Province); err != nil {
		return nil, err
	}
	if err := add(models.TierWard, result.Ward, seg.Ward, result.District); err != nil {
		return nil, err
	}
	if len(out.Suggestions) == 0 {
		out.Suggestions = nil
	}
	return &out, nil
}

// CacheKey sha256 của địa chỉ (đã gộp khoảng trắng) kèm phiên bản snapshot
func CacheKey(raw, snapshotVersion string) string {
	sum := sha256.Sum256([]byte(strings.Join(strings.Fields(raw), " ")))
	return snapshotVersion + ":" + hex.EncodeToString(sum[:])
}
