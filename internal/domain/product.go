package domain

import (
	"fmt"
	"time"
)

// Product represents a catalog document in the search index. Field names
// follow the index mapping exactly; the mapping is fixed at seed time and the
// query builder depends on it.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory,omitempty"`
	Price          float64           `json:"price"`
	OriginalPrice  *float64          `json:"originalPrice,omitempty"`
	Discount       *int              `json:"discount,omitempty"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	ImageURL       string            `json:"imageUrl"`
	Images         []string          `json:"images,omitempty"`
	InStock        bool              `json:"inStock"`
	StockCount     int               `json:"stockCount"`
	Tags           []string          `json:"tags"`
	Features       []string          `json:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Color          string            `json:"color,omitempty"`
	Size           string            `json:"size,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Validate checks the document invariants before it is handed to the engine.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product: id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("product: name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: price must not be negative", p.ID)
	}
	if p.Rating < 0 {
		return fmt.Errorf("product %s: rating must not be negative", p.ID)
	}
	if p.Discount != nil {
		if p.OriginalPrice == nil {
			return fmt.Errorf("product %s: discount requires originalPrice", p.ID)
		}
		if *p.OriginalPrice <= p.Price {
			return fmt.Errorf("product %s: originalPrice must exceed price", p.ID)
		}
	}
	return nil
}

// Highlight holds the marked-up fragments the engine produced for a hit.
// Absence of highlights is normal: match-all queries have nothing to mark.
type Highlight struct {
	Name        []string `json:"name,omitempty"`
	Description []string `json:"description,omitempty"`
}

// ProductHit is a matched product together with its optional highlights.
type ProductHit struct {
	Product
	Highlight *Highlight `json:"highlight,omitempty"`
}
