package models

import (
	"strings"
)

// Tier cấp hành chính của một GeoNode
type Tier string

const (
	TierProvince Tier = "province"
	TierDistrict Tier = "district"
	TierWard     Tier = "ward"
)

// Level constants (giữ nguyên quy ước level trong collection admin_units)
const (
	LevelProvince = 2
	LevelDistrict = 3
	LevelWard     = 4
)

// GeoNode đơn vị hành chính (tỉnh, quận, phường) dùng cho matching
type GeoNode struct {
	ID             string   `json:"id" yaml:"id"`
	ExternalID     string   `json:"external_id" yaml:"external_id"` // mã của hãng vận chuyển
	Name           string   `json:"name" yaml:"name"`
	AlternateNames []string `json:"alternate_names,omitempty" yaml:"alternate_names,omitempty"`
	ParentID       string   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Tier           Tier     `json:"tier" yaml:"tier"`
}

// AdminUnit document trong MongoDB
type AdminUnit struct {
	AdminID    string   `bson:"admin_id" json:"admin_id"`
	ExternalID string   `bson:"external_id" json:"external_id"`
	ParentID   *string  `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Level      int      `bson:"level" json:"level"` // 2=province, 3=district, 4=ward
	Name       string   `bson:"name" json:"name"`
	Aliases    []string `bson:"aliases,omitempty" json:"aliases,omitempty"`
}

// TierForLevel chuyển level sang Tier, false nếu level không hỗ trợ
func TierForLevel(level int) (Tier, bool) {
	switch level {
	case LevelProvince:
		return TierProvince, true
	case LevelDistrict:
		return TierDistrict, true
	case LevelWard:
		return TierWard, true
	}
	return "", false
}

// IsValidLevel kiểm tra level có hợp lệ không
func (au *AdminUnit) IsValidLevel() bool {
	_, ok := TierForLevel(au.Level)
	return ok
}

// ToGeoNode chuyển document sang GeoNode
func (au *AdminUnit) ToGeoNode() GeoNode {
	tier, _ := TierForLevel(au.Level)
	node := GeoNode{
		ID:         au.AdminID,
		ExternalID: au.ExternalID,
		Name:       strings.TrimSpace(au.Name),
		Tier:       tier,
	}
	if au.ParentID != nil {
		node.ParentID = *au.ParentID
	}
	for _, alias := range au.Aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			node.AlternateNames = append(node.AlternateNames, alias)
		}
	}
	return node
}
