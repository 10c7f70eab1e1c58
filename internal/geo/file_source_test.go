package geo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/address-shipping/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_JSON(t *testing.T) {
	path := writeFile(t, "geo.json", `{
		"provinces": [{"id": "79", "external_id": "202", "name": "Hồ Chí Minh"}],
		"districts": [{"id": "760", "external_id": "1442", "name": "Quận 1", "parent_id": "79"}],
		"wards": [{"id": "26734", "external_id": "20109", "name": "Bến Nghé", "parent_id": "760", "alternate_names": ["P. Bến Nghé"]}]
	}`)

	data, err := geo.NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Provinces, 1)
	require.Len(t, data.Districts, 1)
	require.Len(t, data.Wards, 1)
	assert.Equal(t, "79", data.Districts[0].ParentID)
	assert.Equal(t, []string{"P. Bến Nghé"}, data.Wards[0].AlternateNames)
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "geo.yaml", `
provinces:
  - id: "01"
    external_id: "201"
    name: Hà Nội
districts:
  - id: "001"
    external_id: "1484"
    name: Quận Ba Đình
    parent_id: "01"
wards: []
`)

	data, err := geo.NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Provinces, 1)
	assert.Equal(t, "Hà Nội", data.Provinces[0].Name)
	assert.Equal(t, "01", data.Districts[0].ParentID)
	assert.Empty(t, data.Wards)
}

func TestFileSource_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := geo.NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(ctx)
	assert.Error(t, err)

	_, err = geo.NewFileSource(writeFile(t, "geo.csv", "a,b")).Load(ctx)
	assert.Error(t, err)

	_, err = geo.NewFileSource(writeFile(t, "geo.json", "{broken")).Load(ctx)
	assert.Error(t, err)
}
