package repository

import (
	"context"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
)

type UserRepository interface {
	// FindIDByLogin matches username OR email, case-insensitively.
	FindIDByLogin(ctx context.Context, username, email string) (int64, bool, error)
	FindSimilar(ctx context.Context, username, email string) ([]entity.User, error)
}

type TopicRepository interface {
	List(ctx context.Context) ([]entity.Topic, error)
}

type ContentRepository interface {
	CreateSubscription(ctx context.Context, sub *entity.UserTopic) error
	CreateArticle(ctx context.Context, article *entity.Article) error
	CreateComment(ctx context.Context, comment *entity.Comment) error
}
