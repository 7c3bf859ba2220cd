package seed

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

func TestProducts_Count(t *testing.T) {
	g := NewGenerator(1)

	assert.Len(t, g.Products(DefaultCount), DefaultCount)
	assert.Len(t, g.Products(10), 10)
	assert.Empty(t, g.Products(0))
}

func TestProducts_AllValid(t *testing.T) {
	for _, p := range NewGenerator(7).Products(200) {
		require.NoError(t, p.Validate(), "product %s", p.ID)
	}
}

func TestProducts_Deterministic(t *testing.T) {
	// Timestamps depend on the wall clock, so compare the generated fields.
	key := func(products []domain.Product) []string {
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, fmt.Sprintf("%s|%s|%.2f|%.1f|%d", p.ID, p.Name, p.Price, p.Rating, p.ReviewCount))
		}
		return out
	}

	a := NewGenerator(42).Products(50)
	b := NewGenerator(42).Products(50)
	assert.Equal(t, key(a), key(b))

	c := NewGenerator(43).Products(50)
	assert.NotEqual(t, key(a), key(c))
}

func TestProducts_FieldRanges(t *testing.T) {
	for _, p := range NewGenerator(99).Products(300) {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Brand)
		assert.Contains(t, categoryNames, p.Category)
		assert.Contains(t, categories[p.Category], p.Subcategory)

		assert.GreaterOrEqual(t, p.Price, 19.99)
		assert.LessOrEqual(t, p.Price, 1999.99)
		assert.GreaterOrEqual(t, p.Rating, 3.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.GreaterOrEqual(t, p.ReviewCount, 5)
		assert.LessOrEqual(t, p.ReviewCount, 5000)

		// Prices and ratings are already rounded for display.
		assert.InDelta(t, p.Price, math.Round(p.Price*100)/100, 1e-9)
		assert.InDelta(t, p.Rating, math.Round(p.Rating*10)/10, 1e-9)

		if !p.InStock {
			assert.Zero(t, p.StockCount)
		}
	}
}

func TestProducts_DiscountConsistency(t *testing.T) {
	products := NewGenerator(5).Products(500)

	discounted := 0
	for _, p := range products {
		if p.Discount == nil {
			assert.Nil(t, p.OriginalPrice, "product %s has originalPrice without discount", p.ID)
			continue
		}
		discounted++

		require.NotNil(t, p.OriginalPrice, "product %s has discount without originalPrice", p.ID)
		assert.GreaterOrEqual(t, *p.Discount, 5)
		assert.LessOrEqual(t, *p.Discount, 50)
		assert.Greater(t, *p.OriginalPrice, p.Price)

		// originalPrice reverses the discount within rounding tolerance.
		expected := p.Price / (1 - float64(*p.Discount)/100)
		assert.InDelta(t, expected, *p.OriginalPrice, 0.01, "product %s", p.ID)
	}

	// Roughly 30% of products carry a discount.
	assert.Greater(t, discounted, 0)
	assert.Less(t, discounted, len(products))
}

func TestProducts_CategorySpecificAttributes(t *testing.T) {
	products := NewGenerator(11).Products(500)

	sawSpecs := false
	sawColorSize := false
	for _, p := range products {
		switch p.Category {
		case "Electronics":
			assert.NotEmpty(t, p.Specifications, "electronics %s should carry specifications", p.ID)
			sawSpecs = true
		case "Clothing":
			assert.NotEmpty(t, p.Color, "clothing %s should carry a color", p.ID)
			assert.NotEmpty(t, p.Size, "clothing %s should carry a size", p.ID)
			sawColorSize = true
		}
	}
	assert.True(t, sawSpecs)
	assert.True(t, sawColorSize)
}

func TestProducts_UniqueIDs(t *testing.T) {
	products := NewGenerator(3).Products(DefaultCount)

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		_, dup := seen[p.ID]
		assert.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}
	}
}
