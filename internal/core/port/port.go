package port

import (
	"context"

	"github.com/niksmo/snublejuice/internal/core/domain"
)

// Inbound.

type ProductsFinder interface {
	FindProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
}

type CatalogMetadata interface {
	UniqueStores(context.Context) (domain.StoresData, error)
	UniqueCountries(context.Context) ([]string, error)
}

type AccountManager interface {
	Register(
		ctx context.Context, username, email, password string, notify bool,
	) (token string, err error)
	Login(ctx context.Context, username, password string) (token string, err error)
	DeleteAccount(ctx context.Context, username, password string) error
	ToggleFavourite(ctx context.Context, username string, productID int64) (added bool, err error)
	SetNotification(ctx context.Context, username string, notify bool) error
	Profile(ctx context.Context, username string) (domain.UserData, error)
	Authenticate(token string) (username string, err error)
}

// Outbound.

type ProductsReader interface {
	ReadProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	ReadUniqueStores(context.Context) (domain.StoresData, error)
	ReadUniqueCountries(context.Context) ([]string, error)
}

type UsersStorage interface {
	CreateUser(context.Context, domain.User) error
	ReadUser(ctx context.Context, username string) (domain.User, error)
	ReadUsernameByEmail(ctx context.Context, email string) (string, error)
	DeleteUser(ctx context.Context, username string) error
	UpdateNotification(ctx context.Context, username string, notify bool) error
	ToggleFavourite(ctx context.Context, username string, productID int64) (added bool, err error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenManager interface {
	Sign(username string) (string, error)
	Verify(token string) (username string, err error)
}
