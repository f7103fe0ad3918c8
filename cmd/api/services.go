package main

import (
	"fmt"

	"github.com/repairdepot/storefront/api/routes"
	"github.com/repairdepot/storefront/internal/auth"
	"github.com/repairdepot/storefront/internal/cart"
	"github.com/repairdepot/storefront/internal/catalog"
	"github.com/repairdepot/storefront/internal/orders"
	"github.com/repairdepot/storefront/internal/products"
	"github.com/repairdepot/storefront/internal/repairs"
	"github.com/repairdepot/storefront/internal/reviews"
	"github.com/repairdepot/storefront/internal/stores"
	"github.com/repairdepot/storefront/internal/users"
	"github.com/repairdepot/storefront/internal/warranty"
	"github.com/repairdepot/storefront/internal/wholesale"
	"github.com/repairdepot/storefront/pkg/config"
	"github.com/repairdepot/storefront/pkg/db"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/outbox"
	"github.com/repairdepot/storefront/pkg/redis"
)

// buildServices wires repositories into the domain services the router serves.
func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (routes.Services, error) {
	var svc routes.Services
	conn := dbClient.DB()
	publisher := outbox.NewService(outbox.NewRepository(conn), logg)

	productRepo := products.NewRepository(conn)
	storeRepo := stores.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	wholesaleRepo := wholesale.NewRepository(conn)

	var err error
	if svc.Products, err = products.NewService(productRepo, redisClient, cfg.RateLimit.AutocompleteTT, logg); err != nil {
		return svc, fmt.Errorf("products service: %w", err)
	}
	if svc.Catalog, err = catalog.NewService(catalog.NewRepository(conn)); err != nil {
		return svc, fmt.Errorf("catalog service: %w", err)
	}
	if svc.Stores, err = stores.NewService(storeRepo); err != nil {
		return svc, fmt.Errorf("stores service: %w", err)
	}
	if svc.Cart, err = cart.NewService(cart.NewRepository(conn), dbClient, productRepo, wholesaleRepo); err != nil {
		return svc, fmt.Errorf("cart service: %w", err)
	}
	if svc.Orders, err = orders.NewService(orderRepo, dbClient, publisher); err != nil {
		return svc, fmt.Errorf("orders service: %w", err)
	}
	if svc.Repairs, err = repairs.NewService(repairs.NewRepository(conn), dbClient, publisher, storeRepo); err != nil {
		return svc, fmt.Errorf("repairs service: %w", err)
	}
	if svc.Warranty, err = warranty.NewService(warranty.NewRepository(conn), orderRepo, dbClient, publisher); err != nil {
		return svc, fmt.Errorf("warranty service: %w", err)
	}
	if svc.Reviews, err = reviews.NewService(reviews.NewRepository(conn), productRepo); err != nil {
		return svc, fmt.Errorf("reviews service: %w", err)
	}
	if svc.Wholesale, err = wholesale.NewService(wholesaleRepo, dbClient, publisher); err != nil {
		return svc, fmt.Errorf("wholesale service: %w", err)
	}
	if svc.Auth, err = auth.NewService(auth.ServiceParams{
		Users:       users.NewRepository(conn),
		Tokens:      redisClient,
		Tx:          dbClient,
		Outbox:      publisher,
		PasswordCfg: cfg.Password,
		RateLimit:   cfg.RateLimit,
		Logger:      logg,
	}); err != nil {
		return svc, fmt.Errorf("auth service: %w", err)
	}
	return svc, nil
}
