package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource đọc địa giới từ file JSON hoặc YAML
// với các khóa provinces, districts, wards.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (fs *FileSource) Load(ctx context.Context) (Data, error) {
	if err := ctx.Err(); err != nil {
		return Data{}, err
	}

	b, err := os.ReadFile(fs.path)
	if err != nil {
		return Data{}, fmt.Errorf("lỗi đọc file địa giới: %w", err)
	}

	var data Data
	switch strings.ToLower(filepath.Ext(fs.path)) {
	case ".json":
		err = json.Unmarshal(b, &data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &data)
	default:
		return Data{}, fmt.Errorf("định dạng file địa giới không hỗ trợ: %s", fs.path)
	}
	if err != nil {
		return Data{}, fmt.Errorf("lỗi parse file địa giới %s: %w", fs.path, err)
	}
	return data, nil
}
