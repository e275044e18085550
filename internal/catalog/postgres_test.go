package catalog

import (
	"testing"

	"storefront-orders/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestProductRow_Product(t *testing.T) {
	tests := []struct {
		name          string
		row           productRow
		expectedError string
		expectedType  domain.DiscountType
		expectedFinal decimal.Decimal
	}{
		{
			name:         "null discount columns",
			row:          productRow{ID: "1", Name: "Mug", Price: "1000"},
			expectedType: domain.DiscountNone,
		},
		{
			name:         "none discount ignores stale final price",
			row:          productRow{ID: "1", Price: "1000", DiscountType: str("none"), DiscountFinal: str("abc")},
			expectedType: domain.DiscountNone,
		},
		{
			name: "percentage discount",
			row: productRow{ID: "1", Price: "1000", DiscountType: str("percentage"),
				DiscountValue: str("10"), DiscountFinal: str("900.00")},
			expectedType:  domain.DiscountPercentage,
			expectedFinal: decimal.NewFromInt(900),
		},
		{
			name:          "malformed final price",
			row:           productRow{ID: "1", Price: "1000", DiscountType: str("percentage"), DiscountFinal: str("abc")},
			expectedError: "discount final price",
		},
		{
			name:          "missing final price",
			row:           productRow{ID: "1", Price: "1000", DiscountType: str("fixed"), DiscountValue: str("100")},
			expectedError: "without final price",
		},
		{
			name:          "malformed discount value",
			row:           productRow{ID: "1", Price: "1000", DiscountType: str("fixed"), DiscountValue: str(""), DiscountFinal: str("900")},
			expectedError: "discount value",
		},
		{
			name:          "unknown discount type",
			row:           productRow{ID: "1", Price: "1000", DiscountType: str("bogo"), DiscountFinal: str("900")},
			expectedError: "unknown discount type",
		},
		{
			name:          "malformed price",
			row:           productRow{ID: "1", Price: ""},
			expectedError: "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, err := tt.row.product()
			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, pr.Discount.Type)
			assert.True(t, tt.expectedFinal.Equal(pr.Discount.FinalPrice))
			assert.Equal(t, tt.row.ID, pr.ID)
		})
	}
}
