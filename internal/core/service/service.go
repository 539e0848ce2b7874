package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/internal/core/port"
)

var _ port.ProductsFinder = (*Service)(nil)
var _ port.CatalogMetadata = (*Service)(nil)
var _ port.AccountManager = (*Service)(nil)

type Service struct {
	productsReader port.ProductsReader
	usersStorage   port.UsersStorage
	hasher         port.PasswordHasher
	tokens         port.TokenManager
}

func New(
	productsReader port.ProductsReader,
	usersStorage port.UsersStorage,
	hasher port.PasswordHasher,
	tokens port.TokenManager,
) Service {
	return Service{
		productsReader,
		usersStorage,
		hasher,
		tokens,
	}
}

// FindProducts passes f through to the catalog. Negative pagination
// values are replaced by the defaults.
func (s Service) FindProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "Service.FindProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if f.Limit < 0 {
		f.Limit = domain.DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = domain.DefaultOffset
	}

	ps, err := s.productsReader.ReadProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) UniqueStores(ctx context.Context) (domain.StoresData, error) {
	const op = "Service.UniqueStores"

	if err := ctx.Err(); err != nil {
		return domain.StoresData{}, fmt.Errorf("%s: %w", op, err)
	}

	stores, err := s.productsReader.ReadUniqueStores(ctx)
	if err != nil {
		return domain.StoresData{}, fmt.Errorf("%s: %w", op, err)
	}
	return stores, nil
}

func (s Service) UniqueCountries(ctx context.Context) ([]string, error) {
	const op = "Service.UniqueCountries"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	countries, err := s.productsReader.ReadUniqueCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return countries, nil
}

// Register creates an account and returns a session token for it.
func (s Service) Register(
	ctx context.Context, username, email, password string, notify bool,
) (string, error) {
	const op = "Service.Register"
	log := slog.With("op", op)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return "", fmt.Errorf("%s: %w: username and password required",
			op, domain.ErrInvalidInput)
	}

	_, err := s.usersStorage.ReadUser(ctx, username)
	switch {
	case err == nil:
		return "", fmt.Errorf("%s: %w", op, domain.ErrUsernameTaken)
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if email != "" {
		_, err := s.usersStorage.ReadUsernameByEmail(ctx, email)
		switch {
		case err == nil:
			return "", fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
		case !errors.Is(err, domain.ErrNotFound):
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	u := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Notify:       notify,
		Favourites:   []int64{},
	}
	if err := s.usersStorage.CreateUser(ctx, u); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("user registered", "username", username)

	token, err := s.tokens.Sign(username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

func (s Service) Login(ctx context.Context, username, password string) (string, error) {
	const op = "Service.Login"

	if err := s.checkPassword(ctx, username, password); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.Sign(username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// DeleteAccount removes the account after the password is confirmed.
func (s Service) DeleteAccount(ctx context.Context, username, password string) error {
	const op = "Service.DeleteAccount"
	log := slog.With("op", op)

	if err := s.checkPassword(ctx, username, password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.usersStorage.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("user deleted", "username", username)
	return nil
}

func (s Service) ToggleFavourite(
	ctx context.Context, username string, productID int64,
) (bool, error) {
	const op = "Service.ToggleFavourite"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	added, err := s.usersStorage.ToggleFavourite(ctx, username, productID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return added, nil
}

func (s Service) SetNotification(ctx context.Context, username string, notify bool) error {
	const op = "Service.SetNotification"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.usersStorage.UpdateNotification(ctx, username, notify); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) Profile(ctx context.Context, username string) (domain.UserData, error) {
	const op = "Service.Profile"

	if err := ctx.Err(); err != nil {
		return domain.UserData{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.usersStorage.ReadUser(ctx, username)
	if err != nil {
		return domain.UserData{}, fmt.Errorf("%s: %w", op, err)
	}
	return u.Data(), nil
}

func (s Service) Authenticate(token string) (string, error) {
	const op = "Service.Authenticate"

	username, err := s.tokens.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return username, nil
}

// checkPassword reports an unknown user and a wrong password
// the same way.
func (s Service) checkPassword(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := s.usersStorage.ReadUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	return s.hasher.Compare(u.PasswordHash, password)
}
