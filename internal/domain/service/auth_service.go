package service

import (
	"context"
	"time"
)

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService is the application's own account write path.
type AuthService interface {
	Register(ctx context.Context, req Registration) error
}

type BatchCommitted struct {
	BatchID       string    `json:"batch_id"`
	Users         int       `json:"users"`
	Subscriptions int       `json:"subscriptions"`
	Articles      int       `json:"articles"`
	Comments      int       `json:"comments"`
	Manifest      string    `json:"manifest"`
	CommittedAt   time.Time `json:"committed_at"`
}

type EventPublisher interface {
	PublishBatchCommitted(ctx context.Context, event BatchCommitted) error
}
