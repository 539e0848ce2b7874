package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/internal/core/port"
)

var _ port.UsersStorage = (*UsersRepository)(nil)

type UsersRepository struct {
	sqldb   sqldb
	dialect Dialect
}

func NewUsersRepository(db SQLDB) UsersRepository {
	return UsersRepository{sqldb: db, dialect: db.Dialect()}
}

func (r UsersRepository) CreateUser(ctx context.Context, u domain.User) error {
	const op = "UsersRepository.CreateUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	favourites, err := encodeFavourites(u.Favourites)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := rebind(r.dialect, `
		INSERT INTO users (username, email, password, notify, favourites)
		VALUES (?, ?, ?, ?, ?);`)

	// Accounts without an email store NULL, which the unique index ignores.
	email := sql.NullString{String: u.Email, Valid: u.Email != ""}

	_, err = r.sqldb.ExecContext(ctx, query,
		u.Username, email, u.PasswordHash, u.Notify, favourites,
	)
	if err != nil {
		if column, ok := uniqueViolation(err); ok {
			if column == "email" {
				return fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
			}
			return fmt.Errorf("%s: %w", op, domain.ErrUsernameTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r UsersRepository) ReadUser(
	ctx context.Context, username string,
) (domain.User, error) {
	const op = "UsersRepository.ReadUser"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := rebind(r.dialect, `
		SELECT username, email, password, notify, CAST(favourites AS TEXT)
		FROM users
		WHERE username = ?;`)

	var (
		u          domain.User
		email      sql.NullString
		password   sql.NullString
		notify     sql.NullBool
		favourites sql.NullString
	)
	err := r.sqldb.QueryRowContext(ctx, query, username).Scan(
		&u.Username, &email, &password, &notify, &favourites,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u.Email = email.String
	u.PasswordHash = password.String
	u.Notify = notify.Bool
	u.Favourites = decodeFavourites(favourites)
	return u, nil
}

func (r UsersRepository) ReadUsernameByEmail(
	ctx context.Context, email string,
) (string, error) {
	const op = "UsersRepository.ReadUsernameByEmail"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := rebind(r.dialect, `SELECT username FROM users WHERE email = ?;`)

	var username string
	err := r.sqldb.QueryRowContext(ctx, query, email).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return username, nil
}

func (r UsersRepository) DeleteUser(ctx context.Context, username string) error {
	const op = "UsersRepository.DeleteUser"

	query := rebind(r.dialect, `DELETE FROM users WHERE username = ?;`)
	if err := r.execOne(ctx, query, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r UsersRepository) UpdateNotification(
	ctx context.Context, username string, notify bool,
) error {
	const op = "UsersRepository.UpdateNotification"

	query := rebind(r.dialect, `UPDATE users SET notify = ? WHERE username = ?;`)
	if err := r.execOne(ctx, query, notify, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ToggleFavourite adds productID to the favourites of the user
// or removes it when already present. Reports whether it was added.
func (r UsersRepository) ToggleFavourite(
	ctx context.Context, username string, productID int64,
) (added bool, toggleErr error) {
	const op = "UsersRepository.ToggleFavourite"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if toggleErr == nil {
			if err := tx.Commit(); err != nil {
				toggleErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	selectQuery := rebind(r.dialect, `
		SELECT CAST(favourites AS TEXT) FROM users WHERE username = ?;`)

	var raw sql.NullString
	err = tx.QueryRowContext(ctx, selectQuery, username).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	favourites := decodeFavourites(raw)
	if i := slices.Index(favourites, productID); i != -1 {
		favourites = slices.Delete(favourites, i, i+1)
	} else {
		favourites = append(favourites, productID)
		added = true
	}

	encoded, err := encodeFavourites(favourites)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	updateQuery := rebind(r.dialect, `
		UPDATE users SET favourites = ? WHERE username = ?;`)

	_, err = tx.ExecContext(ctx, updateQuery, encoded, username)
	if err != nil {
		return false, fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return added, nil
}

// execOne fails with [domain.ErrNotFound] when no row is affected.
func (r UsersRepository) execOne(ctx context.Context, query string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := r.sqldb.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// decodeFavourites treats a missing or malformed list as empty.
func decodeFavourites(raw sql.NullString) []int64 {
	vs := decodeJSONArray[int64]("favourites", raw)
	if vs == nil {
		return []int64{}
	}
	return vs
}

func encodeFavourites(vs []int64) (string, error) {
	if vs == nil {
		vs = []int64{}
	}
	b, err := json.Marshal(vs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
