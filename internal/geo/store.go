package geo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/address-shipping/app/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUnavailable không load được dữ liệu địa giới, không thể resolve
var ErrUnavailable = errors.New("geography data unavailable")

const (
	DefaultTTL  = 5 * time.Minute
	loadTimeout = 30 * time.Second
)

type cachedSnapshot struct {
	snapshot  *Snapshot
	expiresAt time.Time
}

// Store cache snapshot địa giới theo TTL.
// Reload thay thế snapshot nguyên khối, reader chỉ thấy bản cũ hoặc bản mới.
type Store struct {
	source Source
	ttl    time.Duration
	logger *zap.Logger

	current atomic.Pointer[cachedSnapshot]
	group   singleflight.Group
	now     func() time.Time
}

// NewStore tạo Store; ttl <= 0 dùng DefaultTTL
func NewStore(source Source, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot trả về snapshot còn hạn, reload nếu hết hạn.
// Các reload đồng thời được gộp thành một lần gọi Source.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	if c := s.current.Load(); c != nil && s.now().Before(c.expiresAt) {
		return c.snapshot, nil
	}

	ch := s.group.DoChan("reload", func() (interface{}, error) {
		if c := s.current.Load(); c != nil && s.now().Before(c.expiresAt) {
			return c.snapshot, nil
		}
		return s.reload(ctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Store) reload(ctx context.Context) (*Snapshot, error) {
	// reload dùng chung cho nhiều caller, không để một caller hủy thay cho tất cả
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()

	start := s.now()
	data, err := s.source.Load(loadCtx)
	if err != nil {
		s.logger.Error("Không thể load dữ liệu địa giới", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	snapshot := NewSnapshot(data, start)
	s.current.Store(&cachedSnapshot{snapshot: snapshot, expiresAt: start.Add(s.ttl)})

	provinces, districts, wards := snapshot.Size()
	s.logger.Info("Đã load snapshot địa giới",
		zap.String("version", snapshot.Version),
		zap.Int("provinces", provinces),
		zap.Int("districts", districts),
		zap.Int("wards", wards),
		zap.Duration("took", s.now().Sub(start)))

	if n := len(snapshot.Warnings); n > 0 {
		shown := snapshot.Warnings
		if n > 10 {
			shown = shown[:10]
		}
		s.logger.Warn("Dữ liệu địa giới có lỗi", zap.Int("count", n), zap.Strings("warnings", shown))
	}

	return snapshot, nil
}

// SetClock thay nguồn thời gian (dùng trong test)
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Provinces danh sách tỉnh/thành
func (s *Store) Provinces(ctx context.Context) ([]models.GeoNode, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Provinces(), nil
}

// Districts quận/huyện, lọc theo tỉnh nếu provinceID khác rỗng
func (s *Store) Districts(ctx context.Context, provinceID string) ([]models.GeoNode, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Districts(provinceID), nil
}

// Wards phường/xã, lọc theo quận nếu districtID khác rỗng
func (s *Store) Wards(ctx context.Context, districtID string) ([]models.GeoNode, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Wards(districtID), nil
}
