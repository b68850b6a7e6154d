package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a row of the Products table
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   *string         `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int32           `json:"stock_quantity" db:"stock_quantity"`
	Category      *string         `json:"category" db:"category"`
	ImgURL        *string         `json:"img_url" db:"img_url"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductInput holds the caller supplied, mutable product fields.
// It is used for both creation and full replacement.
type ProductInput struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity int32
	Category      *string
	ImgURL        *string
}

// Apply copies the mutable fields onto p.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.Category = in.Category
	p.ImgURL = in.ImgURL
}
