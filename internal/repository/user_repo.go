package repository

import (
	"context"
	"strings"
	"time"

	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/pkg/apperror"
)

type UserRepository struct {
	users  Collection[models.User]
	tokens Collection[models.RefreshToken]
}

func NewUserRepo(users Collection[models.User], tokens Collection[models.RefreshToken]) *UserRepository {
	return &UserRepository{users: users, tokens: tokens}
}

// FindUserByUsername finds a user by username, ignoring case
func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	pred := query.Predicate{{Field: "username", Op: query.OpEq, Str: strings.TrimSpace(username)}}
	users, err := r.users.FindAll(ctx, pred, query.Sort{}, 1)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperror.NewNotFoundError("user not found")
	}
	return &users[0], nil
}

// FindUserByID finds a user by ID
func (r *UserRepository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.users.GetByID(ctx, id)
}

// CountUsers counts registered users
func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.users.Count(ctx, nil)
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.users.Create(ctx, user)
}

// CreateRefreshToken creates a new refresh token
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.tokens.Create(ctx, token)
}

// FindRefreshTokenByHash finds a refresh token that has not been revoked
func (r *UserRepository) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	pred := query.NewFilterBuilder().
		Exact("token_hash", &hash, query.Verbatim).
		Flag("revoked", false).
		Build()
	tokens, err := r.tokens.FindAll(ctx, pred, query.Sort{}, 1)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, apperror.NewNotFoundError("refresh token not found or revoked")
	}
	return &tokens[0], nil
}

// RevokeRefreshTokenByHash marks every refresh token with this hash as revoked
func (r *UserRepository) RevokeRefreshTokenByHash(ctx context.Context, hash string) error {
	pred := query.NewFilterBuilder().
		Exact("token_hash", &hash, query.Verbatim).
		Flag("revoked", false).
		Build()
	tokens, err := r.tokens.FindAll(ctx, pred, query.Sort{}, 0)
	if err != nil {
		return err
	}
	for i := range tokens {
		tokens[i].Revoked = true
		if err := r.tokens.Update(ctx, &tokens[i]); err != nil {
			return err
		}
	}
	return nil
}

// PurgeRefreshTokens deletes revoked tokens and tokens expired before now,
// returning how many were removed
func (r *UserRepository) PurgeRefreshTokens(ctx context.Context, now time.Time) (int, error) {
	tokens, err := r.tokens.FindAll(ctx, nil, query.Sort{}, 0)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, t := range tokens {
		if !t.Revoked && t.ExpiresAt.After(now) {
			continue
		}
		if err := r.tokens.Delete(ctx, t.ID); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
