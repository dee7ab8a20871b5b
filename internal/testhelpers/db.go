package testhelpers

import (
	"testing"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/infra/persistence"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory SQLite database with the seeded tables
// created. A single connection keeps the database alive for the whole test.
func NewTestDB(t testing.TB) *persistence.DB {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(":memory:"), persistence.Config{MaxConns: 1, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Conn.AutoMigrate(
		&entity.User{},
		&entity.Topic{},
		&entity.UserTopic{},
		&entity.Article{},
		&entity.Comment{},
	))
	return db
}

// SeedTopics inserts topics with the given names and returns them with ids.
func SeedTopics(t testing.TB, db *persistence.DB, names ...string) []entity.Topic {
	t.Helper()

	topics := make([]entity.Topic, 0, len(names))
	for _, name := range names {
		topics = append(topics, entity.Topic{Name: name})
	}
	if len(topics) > 0 {
		require.NoError(t, db.Conn.Create(&topics).Error)
	}
	return topics
}

// CountRows returns the number of rows in the model's table.
func CountRows(t testing.TB, db *persistence.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Conn.Model(model).Count(&n).Error)
	return n
}
