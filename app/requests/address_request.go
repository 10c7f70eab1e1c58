package requests

// ResolveAddressRequest request khớp địa chỉ đã tách sẵn 3 cấp
type ResolveAddressRequest struct {
	Province string `json:"province" binding:"required"` // Tỉnh/thành phố
	District string `json:"district" binding:"required"` // Quận/huyện
	Ward     string `json:"ward,omitempty"`              // Phường/xã (tùy chọn)
}

// ParseAddressRequest request parse địa chỉ đơn lẻ
type ParseAddressRequest struct {
	Address string       `json:"address" binding:"required"` // Địa chỉ cần parse
	Options ParseOptions `json:"options,omitempty"`          // Tùy chọn parse
}

// ParseOptions tùy chọn parse
type ParseOptions struct {
	UseCache         bool `json:"use_cache,omitempty"`         // Có sử dụng cache không
	ReturnCandidates bool `json:"return_candidates,omitempty"` // Trả về gợi ý cho cấp không khớp
	TopK             int  `json:"top_k,omitempty"`             // Số gợi ý tối đa mỗi cấp
}

// BatchParseRequest request parse hàng loạt địa chỉ
type BatchParseRequest struct {
	Addresses []string     `json:"addresses" binding:"required,min=1,max=1000"` // Danh sách địa chỉ (tối đa 1000)
	Options   ParseOptions `json:"options,omitempty"`                           // Tùy chọn parse
}
