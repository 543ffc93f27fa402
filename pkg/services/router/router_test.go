package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectedCollection string
		confident          bool
	}{
		{
			name:               "LocationKeywords",
			text:               "penjualan per lokasi",
			expectedCollection: "sales_by_location",
			confident:          true,
		},
		{
			name:               "MonthlyTrend",
			text:               "monthly sales trend",
			expectedCollection: "sales_by_month",
			confident:          true,
		},
		{
			name:               "ProductKeywords",
			text:               "top selling products by category",
			expectedCollection: "sales_by_product",
			confident:          true,
		},
		{
			name:               "PaymentSecondaryOnly",
			text:               "how many paid with qris",
			expectedCollection: "sales_by_payment_method",
			confident:          true,
		},
		{
			name:               "NoKeywords",
			text:               "total revenue",
			expectedCollection: "",
			confident:          false,
		},
		{
			name:               "EmptyInput",
			text:               "",
			expectedCollection: "",
			confident:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection, score := Route(tt.text)
			assert.Equal(t, tt.expectedCollection, collection)
			if tt.confident {
				assert.GreaterOrEqual(t, score, MinScore)
			} else {
				assert.Less(t, score, MinScore)
			}
		})
	}
}

func TestRoute_TieResolvesToLongerName(t *testing.T) {
	// "trend" and "cabang" are both secondary terms, so the two candidates
	// score identically and the longer name must win.
	collection, score := Route("trend cabang")
	assert.Equal(t, "sales_by_location", collection)
	assert.Equal(t, 2, score)
}

func TestRoute_Deterministic(t *testing.T) {
	first, firstScore := Route("sales by location for june")
	for i := 0; i < 50; i++ {
		collection, score := Route("sales by location for june")
		assert.Equal(t, first, collection)
		assert.Equal(t, firstScore, score)
	}
}
