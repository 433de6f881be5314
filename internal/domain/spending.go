package domain

import (
	"time"
)

// Spending is a single purchase record in the finances domain.
type Spending struct {
	ID      int64  `datastore:"-" json:"id"`
	OwnerID string `datastore:"-" json:"owner_id"`

	ItemName      string    `datastore:"item_name" json:"item_name"`
	Category      string    `datastore:"category" json:"category"`
	CostPrice     float64   `datastore:"cost_price,noindex" json:"cost_price"`
	ShippingFee   float64   `datastore:"shipping_fee,noindex" json:"shipping_fee"`
	Quantity      int       `datastore:"quantity,noindex" json:"quantity"`
	TotalSpending float64   `datastore:"total_spending" json:"total_spending"`
	CostPerItem   float64   `datastore:"cost_per_item,noindex" json:"cost_per_item"`
	CreatedAt     time.Time `datastore:"created_at" json:"created_at"`
}
