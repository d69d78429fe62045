package bigmelo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeKeys_WalksNestedValues(t *testing.T) {
	in := map[string]any{
		"firstName": "Ann",
		"contactInfo": map[string]any{
			"phoneNumber": "555",
		},
		"pastOrders": []any{
			map[string]any{"orderId": float64(1)},
		},
	}

	got := snakeKeys(in)

	assert.Equal(t, map[string]any{
		"first_name": "Ann",
		"contact_info": map[string]any{
			"phone_number": "555",
		},
		"past_orders": []any{
			map[string]any{"order_id": float64(1)},
		},
	}, got)
}

func TestCamelKeys_WalksNestedValues(t *testing.T) {
	in := map[string]any{
		"first_name": "Ann",
		"meta": map[string]any{
			"current_page": float64(1),
			"links":        []any{map[string]any{"url": nil, "is_active": true}},
		},
	}

	got := camelKeys(in)

	assert.Equal(t, map[string]any{
		"firstName": "Ann",
		"meta": map[string]any{
			"currentPage": float64(1),
			"links":       []any{map[string]any{"url": nil, "isActive": true}},
		},
	}, got)
}

func TestCasing_ScalarsPassThrough(t *testing.T) {
	assert.Equal(t, "plain", camelKeys("plain"))
	assert.Nil(t, snakeKeys(nil))
}
