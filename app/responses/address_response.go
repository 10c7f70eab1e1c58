package responses

import (
	"github.com/address-shipping/app/models"
)

// MatchView một cấp hành chính đã khớp
type MatchView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Fallback   bool    `json:"fallback,omitempty"` // khớp ngoài phạm vi cấp cha
}

// ResolveData dữ liệu trả về của /addresses/resolve
type ResolveData struct {
	Province          *MatchView `json:"province"`
	District          *MatchView `json:"district"`
	Ward              *MatchView `json:"ward"`
	NormalizedAddress string     `json:"normalized_address"`
	IsValid           bool       `json:"is_valid"`
}

// ResolveAddressResponse response khớp địa chỉ
type ResolveAddressResponse struct {
	Success bool        `json:"success"`
	Data    ResolveData `json:"data"`
}

// ParseData kết quả parse một địa chỉ
type ParseData struct {
	ResolveData
	Street          string                      `json:"street,omitempty"`
	Segments        models.SegmentedAddress     `json:"segments"`
	SnapshotVersion string                      `json:"snapshot_version,omitempty"`
	Suggestions     map[models.Tier][]MatchView `json:"suggestions,omitempty"`
}

// ParseAddressResponse response parse địa chỉ đơn lẻ
type ParseAddressResponse struct {
	Success          bool      `json:"success"`
	Data             ParseData `json:"data"`
	CacheHit         bool      `json:"cache_hit"`          // Có hit cache không
	ProcessingTimeMs int64     `json:"processing_time_ms"` // Thời gian xử lý (ms)
}

// BatchParseResponse response parse hàng loạt, giữ thứ tự đầu vào
type BatchParseResponse struct {
	Success          bool        `json:"success"`
	Data             []ParseData `json:"data"`
	Total            int         `json:"total"`
	Valid            int         `json:"valid"`
	ProcessingTimeMs int64       `json:"processing_time_ms"`
}

// HealthCheckResponse response health check
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services,omitempty"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
}

// NewMatchView nil nếu cấp đó không khớp
func NewMatchView(c *models.MatchCandidate) *MatchView {
	if c == nil {
		return nil
	}
	return &MatchView{
		ID:         c.Node.ID,
		Name:       c.Node.Name,
		Confidence: c.Confidence,
		Fallback:   c.Fallback,
	}
}

func NewResolveData(r *models.AddressResolution) ResolveData {
	return ResolveData{
		Province:          NewMatchView(r.Province),
		District:          NewMatchView(r.District),
		Ward:              NewMatchView(r.Ward),
		NormalizedAddress: r.NormalizedAddress,
		IsValid:           r.IsValid,
	}
}

func NewParseData(r *models.AddressResolution) ParseData {
	data := ParseData{
		ResolveData:     NewResolveData(r),
		Street:          r.Street,
		Segments:        r.Segments,
		SnapshotVersion: r.SnapshotVersion,
	}
	if len(r.Suggestions) > 0 {
		data.Suggestions = make(map[models.Tier][]MatchView, len(r.Suggestions))
		for tier, candidates := range r.Suggestions {
			views := make([]MatchView, 0, len(candidates))
			for i := range candidates {
				views = append(views, *NewMatchView(&candidates[i]))
			}
			data.Suggestions[tier] = views
		}
	}
	return data
}
