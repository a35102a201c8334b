package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/book_catalog/internal/db"
	"github.com/Skotchmaster/book_catalog/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	return New(gdb)
}

func mustUser(t *testing.T, r *GormRepo, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func mustBook(t *testing.T, r *GormRepo, title, author string) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: author, Genre: "Роман"}
	require.NoError(t, r.CreateBook(context.Background(), b))
	return b
}

func mustReview(t *testing.T, r *GormRepo, userID, bookID uint, score int) *models.Review {
	t.Helper()
	rv := &models.Review{Text: "отзыв", Rating: score, UserID: userID, BookID: bookID}
	require.NoError(t, r.CreateReview(context.Background(), rv))
	return rv
}

func countReviews(t *testing.T, r *GormRepo, column string, id uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(&models.Review{}).Where(column+" = ?", id).Count(&n).Error)
	return n
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username"`)))
}
