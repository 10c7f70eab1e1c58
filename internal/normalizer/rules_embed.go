package normalizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/abbreviations.yaml
var abbreviationsYAML []byte

// RulesConfig bảng viết tắt load từ YAML
type RulesConfig struct {
	Prefixes map[string]string `yaml:"prefixes"` // loại đơn vị hành chính: q, p, tp...
	Places   map[string]string `yaml:"places"`   // tên riêng viết tắt: hcm, hn...
	Numbered []string          `yaml:"numbered"` // prefix được phép dính liền số: q1, p12

	AdminTypes struct {
		Province []string `yaml:"province"`
		District []string `yaml:"district"`
		Ward     []string `yaml:"ward"`
	} `yaml:"admin_types"`
	CountryNames []string `yaml:"country_names"`
}

// LoadRulesConfig đọc bảng viết tắt từ YAML
func LoadRulesConfig(data []byte) (*RulesConfig, error) {
	config := &RulesConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("lỗi parse bảng viết tắt: %w", err)
	}
	return config, nil
}

// loadEmbeddedRules bảng mặc định được nhúng trong binary
func loadEmbeddedRules() *RulesConfig {
	config, err := LoadRulesConfig(abbreviationsYAML)
	if err != nil {
		panic(err)
	}
	return config
}
