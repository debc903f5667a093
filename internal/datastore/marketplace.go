package datastore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"resilience/internal/models"
)

// ErrNotEnoughCoins reports a debit that would drive the balance below
// zero. The purchase transaction rolls back and no state changes.
var ErrNotEnoughCoins = errors.New("not enough eco coins")

var ErrOutOfStock = errors.New("item out of stock")

func CreateTableMarketplace(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.MarketplaceItem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.MarketplacePurchase)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.MarketplacePurchase)(nil)).Index("index_marketplace_purchase_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertMarketplaceItem(ctx context.Context, db *bun.DB, item *models.MarketplaceItem) error {
	_, err := db.NewInsert().Model(item).On("conflict (id) DO nothing").Exec(ctx)
	return err
}

func ListActiveMarketplaceItems(ctx context.Context, db *bun.DB) ([]*models.MarketplaceItem, error) {
	var items []*models.MarketplaceItem
	err := db.NewSelect().Model(&items).
		Where("active = ?", true).
		Order("price_coins ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func FindMarketplaceItem(ctx context.Context, db *bun.DB, itemID string) (*models.MarketplaceItem, error) {
	var item models.MarketplaceItem
	err := db.NewSelect().Model(&item).Where("id = ?", itemID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PurchaseMarketplaceItem debits the buyer and records the purchase in
// one transaction. The conditional debit (eco_coins >= price) is what
// keeps the balance from ever going negative under concurrent spends.
func PurchaseMarketplaceItem(ctx context.Context, db *bun.DB, userID string, item *models.MarketplaceItem) (*models.MarketplacePurchase, error) {
	purchase := &models.MarketplacePurchase{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemID:    item.ID,
		PricePaid: item.PriceCoins,
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Profile)(nil)).
			Set("eco_coins = eco_coins - ?", item.PriceCoins).
			Where("id = ?", userID).
			Where("eco_coins >= ?", item.PriceCoins).
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotEnoughCoins
		}

		if item.Stock != nil {
			res, err := tx.NewUpdate().
				Model((*models.MarketplaceItem)(nil)).
				Set("stock = stock - 1").
				Where("id = ?", item.ID).
				Where("stock > 0").
				Exec(ctx)
			if err != nil {
				return err
			}

			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrOutOfStock
			}
		}

		_, err = tx.NewInsert().Model(purchase).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func ListPurchases(ctx context.Context, db *bun.DB, userID string, limit, offset int) ([]*models.MarketplacePurchase, error) {
	var purchases []*models.MarketplacePurchase
	err := db.NewSelect().Model(&purchases).
		Relation("Item").
		Where("marketplace_purchase.user_id = ?", userID).
		Order("marketplace_purchase.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return purchases, nil
}
