package carriers

import (
	"context"
	"net/http"
	"testing"

	"github.com/address-shipping/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGHTK_GetQuote(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ghtkFeePath, r.URL.Path)
		assert.Equal(t, "ghtk-token", r.Header.Get("Token"))

		q := r.URL.Query()
		assert.Equal(t, "Hồ Chí Minh", q.Get("pick_province"))
		assert.Equal(t, "Quận 1", q.Get("pick_district"))
		assert.Equal(t, "Bến Nghé", q.Get("pick_ward"))
		assert.Equal(t, "Hà Nội", q.Get("province"))
		assert.Equal(t, "Quận Ba Đình", q.Get("district"))
		assert.Equal(t, "Phường Phúc Xá", q.Get("ward"))
		assert.Equal(t, "500", q.Get("weight"))
		assert.Equal(t, "1000000", q.Get("value"))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "",
			"fee": map[string]interface{}{
				"name":          "area1",
				"fee":           38000,
				"insurance_fee": 5000,
				"delivery":      true,
			},
		})
	})

	g := NewGHTK(Config{BaseURL: srv.URL, Token: "ghtk-token"}, nil, zap.NewNop())
	q := g.GetQuote(context.Background(), sampleRequest())

	require.True(t, q.Success, q.ErrorMessage)
	assert.Equal(t, NameGHTK, q.Carrier)
	assert.Equal(t, 38000.0, q.Fee)
	assert.Equal(t, map[string]float64{"service": 33000, "insurance": 5000}, q.FeeBreakdown)
}

func TestGHTK_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		body    map[string]interface{}
		message string
	}{
		{
			name:    "token invalid",
			body:    map[string]interface{}{"success": false, "message": "Token invalid"},
			message: "Token invalid",
		},
		{
			name: "delivery not supported",
			body: map[string]interface{}{
				"success": true,
				"fee":     map[string]interface{}{"fee": 0, "delivery": false},
			},
			message: "delivery not supported for this address",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tc.body)
			})
			q := NewGHTK(Config{BaseURL: srv.URL}, nil, zap.NewNop()).GetQuote(context.Background(), sampleRequest())

			assert.False(t, q.Success)
			assert.Equal(t, models.ErrorKindBusiness, q.ErrorKind)
			assert.Equal(t, tc.message, q.ErrorMessage)
		})
	}
}

func TestGHTK_RequiresNames(t *testing.T) {
	req := sampleRequest()
	req.Destination.Province.Name = ""

	q := NewGHTK(Config{BaseURL: "http://127.0.0.1:1"}, nil, zap.NewNop()).GetQuote(context.Background(), req)
	assert.Equal(t, models.ErrorKindInvalidRequest, q.ErrorKind)
	assert.Contains(t, q.ErrorMessage, "destination province")
}
