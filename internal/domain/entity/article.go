package entity

import "time"

// MaxContentLength mirrors the size limit of articles.content.
const MaxContentLength = 10000

type Article struct {
	ID        int64      `gorm:"primaryKey"`
	Title     string     `gorm:"not null"`
	Content   string     `gorm:"size:10000"`
	AuthorID  int64      `gorm:"not null"`
	TopicID   int64      `gorm:"not null"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}

func (Article) TableName() string {
	return "articles"
}

type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	Content   string    `gorm:"not null"`
	AuthorID  int64     `gorm:"not null"`
	ArticleID int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

func (Comment) TableName() string {
	return "comments"
}
