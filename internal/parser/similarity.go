package parser

import (
	"strings"

	"github.com/address-shipping/internal/normalizer"
)

// Ngưỡng điểm dùng chung cho mọi cấp hành chính
const (
	ExactScore          = 1.0
	ContainmentScore    = 0.8
	AcceptanceThreshold = 0.6
)

// Score tính độ tin cậy [0,1] giữa query và tên ứng viên.
// Thứ tự ưu tiên: khớp chính xác, chuỗi này chứa trọn chuỗi kia, Jaccard theo từ.
func Score(query, candidate string) float64 {
	return ScoreNormalized(normalizer.Normalize(query), normalizer.Normalize(candidate))
}

// ScoreNormalized như Score nhưng hai chuỗi đã được chuẩn hóa sẵn
func ScoreNormalized(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return ExactScore
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return ContainmentScore
	}
	return jaccard(strings.Fields(a), strings.Fields(b))
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for w := range setA {
		union[w] = struct{}{}
	}

	inter := 0
	seen := make(map[string]struct{}, len(b))
	for _, w := range b {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		union[w] = struct{}{}
		if _, ok := setA[w]; ok {
			inter++
		}
	}

	return float64(inter) / float64(len(union))
}
