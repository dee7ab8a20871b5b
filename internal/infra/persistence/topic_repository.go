package persistence

import (
	"context"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/repository"
)

type TopicRepository struct {
	db *DB
}

var _ repository.TopicRepository = (*TopicRepository)(nil)

func NewTopicRepository(db *DB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) List(ctx context.Context) ([]entity.Topic, error) {
	var topics []entity.Topic
	if err := r.db.Read(ctx).Order("id").Find(&topics).Error; err != nil {
		return nil, classify("list topics", err)
	}
	return topics, nil
}
