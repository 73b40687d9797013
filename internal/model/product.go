package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. Price is NUMERIC(10,2) in the store; decimal
// avoids float drift on the positive-price invariant.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
