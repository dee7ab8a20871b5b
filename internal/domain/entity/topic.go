package entity

type Topic struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (Topic) TableName() string {
	return "topics"
}

// UserTopic is a subscription of a user to a topic.
type UserTopic struct {
	UserID  int64 `gorm:"primaryKey;autoIncrement:false"`
	TopicID int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (UserTopic) TableName() string {
	return "user_topics"
}
