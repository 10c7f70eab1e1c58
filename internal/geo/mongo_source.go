package geo

import (
	"context"
	"fmt"

	"github.com/address-shipping/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSource đọc địa giới từ collection admin_units (chỉ đọc)
type MongoSource struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoSource tạo mới MongoSource
func NewMongoSource(db *mongo.Database, collection string, logger *zap.Logger) *MongoSource {
	return &MongoSource{
		collection: db.Collection(collection),
		logger:     logger,
	}
}

// Load đọc toàn bộ tỉnh, quận, phường trong một query
func (ms *MongoSource) Load(ctx context.Context) (Data, error) {
	filter := bson.M{"level": bson.M{"$in": []int{models.LevelProvince, models.LevelDistrict, models.LevelWard}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "level", Value: 1}, {Key: "admin_id", Value: 1}}).
		SetProjection(bson.M{"_id": 0})

	cursor, err := ms.collection.Find(ctx, filter, opts)
	if err != nil {
		return Data{}, fmt.Errorf("lỗi query admin_units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []models.AdminUnit
	if err := cursor.All(ctx, &units); err != nil {
		return Data{}, fmt.Errorf("lỗi đọc admin_units: %w", err)
	}

	ms.logger.Debug("Đã đọc admin_units", zap.Int("count", len(units)))
	return splitUnits(units), nil
}

// splitUnits chia document theo cấp, bỏ qua level không hỗ trợ
func splitUnits(units []models.AdminUnit) Data {
	var data Data
	for i := range units {
		if !units[i].IsValidLevel() {
			continue
		}
		node := units[i].ToGeoNode()
		switch node.Tier {
		case models.TierProvince:
			data.Provinces = append(data.Provinces, node)
		case models.TierDistrict:
			data.Districts = append(data.Districts, node)
		case models.TierWard:
			data.Wards = append(data.Wards, node)
		}
	}
	return data
}
