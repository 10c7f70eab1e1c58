package geo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/address-shipping/internal/normalizer"
)

// Entry node kèm các khóa so khớp đã tính sẵn
type Entry struct {
	Node models.GeoNode
	Keys []string // dạng chuẩn của tên chính, sau đó alternate names
	Bare []string // Keys đã bỏ tiền tố loại đơn vị, chỉ dùng so khớp tuyệt đối
}

// Snapshot bản chụp bất biến của địa giới, không sửa sau khi tạo
type Snapshot struct {
	Version  string
	LoadedAt time.Time
	Warnings []string

	tiers    map[models.Tier][]*Entry
	byParent map[models.Tier]map[string][]*Entry
	byID     map[models.Tier]map[string]*Entry
}

// NewSnapshot dựng snapshot và index theo cha.
// Node mồ côi (cha không tồn tại) bị loại, trùng id hoặc external id được ghi vào Warnings.
func NewSnapshot(data Data, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		LoadedAt: loadedAt,
		tiers:    make(map[models.Tier][]*Entry, 3),
		byParent: make(map[models.Tier]map[string][]*Entry, 3),
		byID:     make(map[models.Tier]map[string]*Entry, 3),
	}

	s.addTier(models.TierProvince, data.Provinces, "")
	s.addTier(models.TierDistrict, data.Districts, models.TierProvince)
	s.addTier(models.TierWard, data.Wards, models.TierDistrict)
	s.Version = contentVersion(data)
	return s
}

func (s *Snapshot) addTier(tier models.Tier, nodes []models.GeoNode, parentTier models.Tier) {
	entries := make([]*Entry, 0, len(nodes))
	ids := make(map[string]*Entry, len(nodes))
	externalIDs := make(map[string]string, len(nodes))
	children := make(map[string][]*Entry)

	for _, node := range nodes {
		node.Tier = tier
		if node.ID == "" {
			s.warn("%s không có id: %q", tier, node.Name)
			continue
		}
		if _, dup := ids[node.ID]; dup {
			s.warn("%s trùng id %s", tier, node.ID)
			continue
		}
		if parentTier != "" {
			if _, ok := s.byID[parentTier][node.ParentID]; !ok {
				s.warn("%s %s mồ côi, cha %q không tồn tại", tier, node.ID, node.ParentID)
				continue
			}
		} else {
			node.ParentID = ""
		}
		if node.ExternalID != "" {
			if other, dup := externalIDs[node.ExternalID]; dup {
				s.warn("%s trùng external id %s (%s, %s)", tier, node.ExternalID, other, node.ID)
			} else {
				externalIDs[node.ExternalID] = node.ID
			}
		}

		keys, bare := matchKeys(node)
		e := &Entry{Node: node, Keys: keys, Bare: bare}
		entries = append(entries, e)
		ids[node.ID] = e
		if parentTier != "" {
			children[node.ParentID] = append(children[node.ParentID], e)
		}
	}

	s.tiers[tier] = entries
	s.byID[tier] = ids
	s.byParent[tier] = children
}

func (s *Snapshot) warn(format string, args ...interface{}) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Entries các entry của tier trong phạm vi parentID; parentID rỗng là toàn bộ tier
func (s *Snapshot) Entries(tier models.Tier, parentID string) []*Entry {
	if parentID == "" || tier == models.TierProvince {
		return s.tiers[tier]
	}
	return s.byParent[tier][parentID]
}

// Node tìm node theo id
func (s *Snapshot) Node(tier models.Tier, id string) (models.GeoNode, bool) {
	e, ok := s.byID[tier][id]
	if !ok {
		return models.GeoNode{}, false
	}
	return e.Node, true
}

func (s *Snapshot) Provinces() []models.GeoNode {
	return nodesOf(s.Entries(models.TierProvince, ""))
}

func (s *Snapshot) Districts(provinceID string) []models.GeoNode {
	return nodesOf(s.Entries(models.TierDistrict, provinceID))
}

func (s *Snapshot) Wards(districtID string) []models.GeoNode {
	return nodesOf(s.Entries(models.TierWard, districtID))
}

// Size số node mỗi cấp
func (s *Snapshot) Size() (provinces, districts, wards int) {
	return len(s.tiers[models.TierProvince]), len(s.tiers[models.TierDistrict]), len(s.tiers[models.TierWard])
}

func nodesOf(entries []*Entry) []models.GeoNode {
	nodes := make([]models.GeoNode, len(entries))
	for i, e := range entries {
		nodes[i] = e.Node
	}
	return nodes
}

// matchKeys dạng chuẩn của tên và alternate names, kèm dạng đã bỏ tiền tố loại đơn vị
func matchKeys(node models.GeoNode) (keys, bare []string) {
	seenKey := make(map[string]bool)
	seenBare := make(map[string]bool)
	add := func(name string) {
		k := normalizer.Canonical(name)
		if k == "" {
			return
		}
		if !seenKey[k] {
			seenKey[k] = true
			keys = append(keys, k)
		}
		if b := normalizer.BareForm(name); !seenBare[b] {
			seenBare[b] = true
			bare = append(bare, b)
		}
	}

	add(node.Name)
	for _, alt := range node.AlternateNames {
		add(alt)
	}
	return keys, bare
}

func contentVersion(data Data) string {
	h := sha256.New()
	write := func(tier models.Tier, nodes []models.GeoNode) {
		for _, n := range nodes {
			fmt.Fprintf(h, "%s\x1f%s\x1f%s\x1f%s\x1f%s\x1f%s\n",
				tier, n.ID, n.ExternalID, n.ParentID, n.Name, strings.Join(n.AlternateNames, "\x1e"))
		}
	}
	write(models.TierProvince, data.Provinces)
	write(models.TierDistrict, data.Districts)
	write(models.TierWard, data.Wards)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
