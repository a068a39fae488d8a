package ports

import (
	"context"

	"github.com/mobi/cms-console/internal/core/domain"
)

// CatalogGateway exposes the backend resources managed from the console.
type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]domain.Category, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	ListCartItems(ctx context.Context) ([]domain.CartItem, error)

	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
	GetUser(ctx context.Context, id int64) (*domain.UserProfile, error)
	DeleteUser(ctx context.Context, id int64) error
}
