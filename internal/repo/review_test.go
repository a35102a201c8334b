package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/book_catalog/internal/models"
)

func TestCreateReview_BookMustExist(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	u := mustUser(t, r, "alicewonder")
	err := r.CreateReview(context.Background(), &models.Review{Text: "x", Rating: 5, UserID: u.ID, BookID: 404})
	assert.True(t, IsNotFound(err))
}

func TestListReviews_Labels(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, r, "alicewonder")
	bob := mustUser(t, r, "bobbuilder")
	idiot := mustBook(t, r, "Идиот", "Фёдор Достоевский")
	demons := mustBook(t, r, "Бесы", "Фёдор Достоевский")
	mustReview(t, r, alice.ID, idiot.ID, 9)
	mustReview(t, r, bob.ID, demons.ID, 4)

	// drop the rows behind the repo's back to leave dangling references
	require.NoError(t, r.DB.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, r.DB.Delete(&models.User{}, bob.ID).Error)
	require.NoError(t, r.DB.Delete(&models.Book{}, demons.ID).Error)

	all, err := r.ListReviews(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "Идиот", all[0].BookTitle())
	assert.Equal(t, "alicewonder", all[0].UserTitle())
	assert.Equal(t, models.DeletedBookTitle, all[1].BookTitle())
	assert.Equal(t, models.DeletedUserTitle, all[1].UserTitle())

	id := idiot.ID
	one, err := r.ListReviews(ctx, &id)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 9, one[0].Rating)
}
