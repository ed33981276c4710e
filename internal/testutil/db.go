// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/idiom-hub/backend/internal/database"
	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory sqlite database private to the test. A single
// connection is used so transactions serialize the way row locks do on postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with a unique username and email.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		FullName: username + " fullname",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateIdiom inserts an idiom owned by authorID.
func CreateIdiom(t *testing.T, db *gorm.DB, authorID int, title string) models.Idiom {
	t.Helper()
	i := models.Idiom{
		Title:       title,
		Meaning:     "meaning of " + title,
		Example:     "example of " + title,
		Explanation: "explanation of " + title,
		Category:    "general",
		Tags:        []string{"test"},
		AuthorID:    authorID,
	}
	require.NoError(t, db.Create(&i).Error)
	return i
}

// CreateComment inserts a comment with an explicit creation time.
func CreateComment(t *testing.T, db *gorm.DB, idiomID, authorID int, content string, at time.Time) models.Comment {
	t.Helper()
	c := models.Comment{IdiomID: idiomID, AuthorID: authorID, Content: content, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// CreateReply inserts a reply with an explicit creation time.
func CreateReply(t *testing.T, db *gorm.DB, commentID, authorID int, content string, at time.Time) models.Reply {
	t.Helper()
	r := models.Reply{CommentID: commentID, AuthorID: authorID, Content: content, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(&r).Error)
	return r
}
