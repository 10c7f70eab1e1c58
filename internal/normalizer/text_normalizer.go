package normalizer

import (
	"strings"
	"unicode"
)

// Normalize chuyển text địa chỉ về dạng so sánh chuẩn:
// lowercase, bỏ dấu, đ -> d, ký tự không phải chữ/số thành khoảng trắng,
// gộp khoảng trắng và trim. Hàm thuần, không bao giờ lỗi.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := StripDiacritics(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == 'đ':
			b.WriteRune('d')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Canonical mở rộng viết tắt rồi chuẩn hóa, dùng cho cả query lẫn tên master data
func Canonical(text string) string {
	return Normalize(ExpandAbbreviations(text))
}
