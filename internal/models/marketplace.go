package models

import (
	"time"

	"github.com/uptrace/bun"
)

type MarketplaceItem struct {
	bun.BaseModel `bun:"table:marketplace_item"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Description   string    `bun:"description" json:"description"`
	ImageURL      *string   `bun:"image_url" json:"image_url"`
	PriceCoins    int       `bun:"price_coins,notnull" json:"price_coins"`
	Stock         *int      `bun:"stock" json:"stock"`
	Active        bool      `bun:"active" json:"active"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type MarketplacePurchase struct {
	bun.BaseModel `bun:"table:marketplace_purchase"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	ItemID        string    `bun:"item_id,notnull" json:"item_id"`
	PricePaid     int       `bun:"price_paid,notnull" json:"price_paid"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`

	Item *MarketplaceItem `bun:"rel:belongs-to,join:item_id=id" json:"item"`
}
