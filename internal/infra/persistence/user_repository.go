package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
)

type UserRepository struct {
	db *DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindIDByLogin runs on the primary outside any transaction, so every call
// sees rows committed by the application since the previous one.
func (r *UserRepository) FindIDByLogin(ctx context.Context, username, email string) (int64, bool, error) {
	query, args, err := sq.Select("id").
		From("users").
		Where(sq.Or{
			sq.Expr("LOWER(username) = LOWER(?)", username),
			sq.Expr("LOWER(email) = LOWER(?)", email),
		}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var ids []int64
	if err := r.db.Write(ctx).Raw(query, args...).Scan(&ids).Error; err != nil {
		return 0, false, classify("find user id", err)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// FindSimilar is a loose pattern match used only for diagnostics.
func (r *UserRepository) FindSimilar(ctx context.Context, username, email string) ([]entity.User, error) {
	query, args, err := sq.Select("id", "username", "email").
		From("users").
		Where(sq.Or{
			sq.Like{"username": "%" + username + "%"},
			sq.Like{"email": "%" + email + "%"},
		}).
		OrderBy("id").
		Limit(10).
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []entity.User
	if err := r.db.Read(ctx).Raw(query, args...).Scan(&users).Error; err != nil {
		return nil, classify("find similar users", err)
	}
	return users, nil
}
