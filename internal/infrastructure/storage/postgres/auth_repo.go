package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stationops/internal/core/apperror"
	"stationops/internal/domain/auth"
)

const usersTable = "users"

var userColumns = ExtractDBColumns[auth.User]()

// UserRepository is the PostgreSQL implementation of auth.Repository.
type UserRepository struct {
	txManager *TxManager
}

var _ auth.Repository = (*UserRepository)(nil)

// NewUserRepository creates a new user repository.
func NewUserRepository(txManager *TxManager) *UserRepository {
	return &UserRepository{txManager: txManager}
}

func (r *UserRepository) Create(ctx context.Context, u *auth.User) error {
	sql, args, err := squirrel.Insert(usersTable).
		SetMap(StructToMap(u)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("username already taken").
				WithDetail("username", u.Username).
				WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	sql, args, err := squirrel.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var u auth.User
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &u, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
