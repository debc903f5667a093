package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"resilience/internal/datastore"
	"resilience/internal/interfaces"
	"resilience/internal/models"
	"resilience/internal/pkg/caching"
)

type ServiceMarketplace struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
	locks      interfaces.Locker
	notifier   interfaces.Notifier
}

func NewServiceMarketplace(container *do.Injector) (*ServiceMarketplace, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	locks, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	notifier, err := do.Invoke[interfaces.Notifier](container)
	if err != nil {
		return nil, err
	}

	return &ServiceMarketplace{container, postgresDB, cache, locks, notifier}, nil
}

func (service *ServiceMarketplace) ListItems(ctx context.Context) ([]*models.MarketplaceItem, error) {
	items, err := caching.UseCache(ctx, service.cache, DBKeyMarketplaceItems(), CACHE_TTL_5_MINS, func() ([]*models.MarketplaceItem, error) {
		return datastore.ListActiveMarketplaceItems(ctx, service.postgresDB)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return items, nil
}

// Purchase debits the buyer and records the purchase in one transaction.
// The balance check happens inside the UPDATE so two concurrent buys
// cannot both spend the same coins.
func (service *ServiceMarketplace) Purchase(ctx context.Context, profileID string, itemID string) (*models.MarketplacePurchase, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	// the debit moves eco_coins, so it takes the same lock the reward
	// engine holds for its read-modify-write; a disjoint key would let
	// an interleaved award write back the pre-purchase balance
	unlock, err := service.locks.Acquire(ctx, LockKeyProfileProgress(profileID))
	if err != nil {
		return nil, errorx.Wrap(ErrProfileLock, errorx.Service)
	}
	defer unlock()

	item, err := datastore.FindMarketplaceItem(ctx, service.postgresDB, itemID)
	if err != nil {
		return nil, errorx.Wrap(errors.New("item not found"), errorx.NotExist)
	}
	if !item.Active {
		return nil, errorx.Wrap(errors.New("item no longer available"), errorx.Invalid)
	}

	purchase, err := datastore.PurchaseMarketplaceItem(ctx, service.postgresDB, profileID, item)
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrNotEnoughCoins):
			return nil, errorx.Wrap(ErrInsufficientFunds, errorx.Invalid)
		case errors.Is(err, datastore.ErrOutOfStock):
			return nil, errorx.Wrap(err, errorx.Invalid)
		default:
			return nil, errorx.Wrap(err, errorx.Service)
		}
	}

	// the debit happened outside the profile cache path
	if err := service.cache.Delete(ctx, DBKeyProfile(profileID)); err != nil {
		log.Printf("failed to invalidate profile cache for %s: %v\n", profileID, err)
	}
	if item.Stock != nil {
		if err := service.cache.Delete(ctx, DBKeyMarketplaceItems()); err != nil {
			log.Printf("failed to invalidate marketplace cache: %v\n", err)
		}
	}

	service.notifier.Notify(ctx, profileID, models.NotificationReward, "Purchase complete", fmt.Sprintf("You redeemed \"%s\" for %d EcoCoins", item.Name, purchase.PricePaid))

	return purchase, nil
}

func (service *ServiceMarketplace) ListPurchases(ctx context.Context, profileID string, limit, offset int) ([]*models.MarketplacePurchase, error) {
	if profileID == "" {
		return nil, errorx.Wrap(ErrNotAuthenticated, errorx.Authn)
	}

	purchases, err := datastore.ListPurchases(ctx, service.postgresDB, profileID, limit, offset)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return purchases, nil
}
