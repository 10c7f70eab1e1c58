package normalizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var reNumbered = regexp.MustCompile(`^([a-z]+)\.?(\d+)$`)

// Expander mở rộng viết tắt địa chỉ theo bảng cố định.
// Best-effort: token không có trong bảng giữ nguyên.
type Expander struct {
	prefixes map[string]string
	places   map[string]string
	numbered map[string]bool

	provinceTypes []string
	districtTypes []string
	wardTypes     []string
	typePrefixes  []typePrefix
	countries     map[string]bool
}

// typePrefix tiền tố loại đơn vị tách theo từ, có dấu và không dấu
type typePrefix struct {
	accented []string
	plain    []string
}

var defaultExpander = NewExpander(loadEmbeddedRules())

// NewExpander tạo Expander từ RulesConfig
func NewExpander(cfg *RulesConfig) *Expander {
	e := &Expander{
		prefixes:  make(map[string]string, len(cfg.Prefixes)),
		places:    make(map[string]string, len(cfg.Places)),
		numbered:  make(map[string]bool, len(cfg.Numbered)),
		countries: make(map[string]bool, len(cfg.CountryNames)),
	}
	for k, v := range cfg.Prefixes {
		e.prefixes[unaccent(k)] = v
	}
	for k, v := range cfg.Places {
		e.places[unaccent(k)] = v
	}
	for _, k := range cfg.Numbered {
		e.numbered[unaccent(k)] = true
	}
	for _, c := range cfg.CountryNames {
		e.countries[Normalize(c)] = true
	}

	e.provinceTypes = normalizeTypes(cfg.AdminTypes.Province)
	e.districtTypes = normalizeTypes(cfg.AdminTypes.District)
	e.wardTypes = normalizeTypes(cfg.AdminTypes.Ward)

	seen := map[string]bool{}
	for _, group := range [][]string{cfg.AdminTypes.Province, cfg.AdminTypes.District, cfg.AdminTypes.Ward} {
		for _, t := range group {
			words := lowerWords(t)
			key := strings.Join(words, " ")
			if len(words) == 0 || seen[key] {
				continue
			}
			seen[key] = true
			plain := make([]string, len(words))
			for i, w := range words {
				plain[i] = Normalize(w)
			}
			e.typePrefixes = append(e.typePrefixes, typePrefix{accented: words, plain: plain})
		}
	}
	sort.SliceStable(e.typePrefixes, func(i, j int) bool {
		return len(e.typePrefixes[i].accented) > len(e.typePrefixes[j].accented)
	})
	return e
}

// ExpandAbbreviations mở rộng viết tắt bằng bảng mặc định, giữ dấu phẩy
func ExpandAbbreviations(text string) string {
	return defaultExpander.Expand(text)
}

// Expand mở rộng từng token trong mỗi đoạn phân cách bởi dấu phẩy
func (e *Expander) Expand(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	segments := strings.Split(text, ",")
	for i, seg := range segments {
		fields := strings.Fields(seg)
		for j, tok := range fields {
			fields[j] = e.expandToken(tok)
		}
		segments[i] = strings.Join(fields, " ")
	}
	return strings.Join(segments, ", ")
}

func (e *Expander) expandToken(tok string) string {
	key := strings.TrimRight(unaccent(tok), ".")
	if key == "" {
		return tok
	}
	if v, ok := e.lookup(key); ok {
		return v
	}

	// q1, q.1, p12
	if m := reNumbered.FindStringSubmatch(key); m != nil && e.numbered[m[1]] {
		return e.prefixes[m[1]] + " " + m[2]
	}

	// tp.hcm, p.bến
	if i := strings.Index(tok, "."); i > 0 && i < len(tok)-1 {
		head := unaccent(tok[:i])
		if v, ok := e.prefixes[head]; ok {
			return v + " " + e.expandToken(tok[i+1:])
		}
	}

	return tok
}

func (e *Expander) lookup(key string) (string, bool) {
	if v, ok := e.prefixes[key]; ok {
		return v, true
	}
	v, ok := e.places[key]
	return v, ok
}

// BareForm dạng chuẩn của text sau khi mở rộng viết tắt và bỏ tiền tố loại đơn vị
// ("Phường Bến Nghé" -> "ben nghe"). Tiền tố được nhận diện khi còn dấu nên
// "Tịnh Biên" hay "Quán Thánh" giữ nguyên; từ gõ không dấu so với dạng không dấu
// của tiền tố. Bỏ tiền tố mà rỗng thì giữ nguyên.
func BareForm(text string) string {
	return defaultExpander.BareForm(text)
}

func (e *Expander) BareForm(text string) string {
	words := lowerWords(e.Expand(text))
	for _, t := range e.typePrefixes {
		if len(t.accented) < len(words) && t.matches(words) {
			return Normalize(strings.Join(words[len(t.accented):], " "))
		}
	}
	return Normalize(strings.Join(words, " "))
}

func (t typePrefix) matches(words []string) bool {
	for i, w := range t.accented {
		if words[i] == w {
			continue
		}
		if !isASCII(words[i]) || words[i] != t.plain[i] {
			return false
		}
	}
	return true
}

// lowerWords lowercase, giữ dấu (NFC), tách theo ký tự không phải chữ/số
func lowerWords(text string) []string {
	s := norm.NFC.String(strings.ToLower(text))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// HasWardType true nếu chuỗi đã chuẩn hóa bắt đầu bằng phường/xã/thị trấn
func HasWardType(normalized string) bool {
	return defaultExpander.hasType(normalized, defaultExpander.wardTypes)
}

// HasDistrictType true nếu chuỗi đã chuẩn hóa bắt đầu bằng quận/huyện/thị xã/thành phố
func HasDistrictType(normalized string) bool {
	return defaultExpander.hasType(normalized, defaultExpander.districtTypes)
}

// IsCountryName true với "viet nam", "vn"...
func IsCountryName(normalized string) bool {
	return defaultExpander.countries[normalized]
}

func (e *Expander) hasType(normalized string, types []string) bool {
	for _, t := range types {
		if _, ok := cutWordPrefix(normalized, t); ok {
			return true
		}
	}
	return false
}

func cutWordPrefix(s, prefix string) (string, bool) {
	if s == prefix {
		return "", true
	}
	if strings.HasPrefix(s, prefix+" ") {
		return s[len(prefix)+1:], true
	}
	return "", false
}

func normalizeTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if n := Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	sortLongestFirst(out)
	return out
}

func sortLongestFirst(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
}
