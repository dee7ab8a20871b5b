package persistence

import (
	"context"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
)

// ContentRepository writes one row per call, each inside its own savepoint,
// so a rejected row leaves the surrounding transaction usable.
type ContentRepository struct {
	db *DB
}

var _ repository.ContentRepository = (*ContentRepository)(nil)

func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateSubscription(ctx context.Context, sub *entity.UserTopic) error {
	return classify("create subscription", r.insert(ctx, sub))
}

func (r *ContentRepository) CreateArticle(ctx context.Context, article *entity.Article) error {
	return classify("create article", r.insert(ctx, article))
}

func (r *ContentRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return classify("create comment", r.insert(ctx, comment))
}

func (r *ContentRepository) insert(ctx context.Context, row any) error {
	return r.db.Savepoint(ctx, func(spCtx context.Context) error {
		return r.db.Write(spCtx).Create(row).Error
	})
}
