package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/book_catalog/internal/events"
)

func TestReviewService_AddReview(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.mustRegister(t, "pupkinvasya", "kupiPirozhok")
	b := env.mustBook(t, "Идиот", "Фёдор Достоевский")

	tests := []struct {
		name    string
		in      NewReview
		wantErr error
	}{
		{name: "ok", in: NewReview{BookID: b.ID, Text: "Сильно", Rating: 10}},
		{name: "lowest score", in: NewReview{BookID: b.ID, Rating: 1}},
		{name: "zero score", in: NewReview{BookID: b.ID, Rating: 0}, wantErr: ErrValidation},
		{name: "score too high", in: NewReview{BookID: b.ID, Rating: 11}, wantErr: ErrValidation},
		{name: "missing book", in: NewReview{BookID: 999, Rating: 5}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rv, err := env.reviews.AddReview(ctx, u, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rv)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, rv.ID)
			assert.Equal(t, u.ID, rv.UserID)
		})
	}

	assert.Equal(t, 2, env.metrics.reviewsStored)
}

func TestReviewService_ListReviews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.mustRegister(t, "pupkinvasya", "kupiPirozhok")
	idiot := env.mustBook(t, "Идиот", "Фёдор Достоевский")
	demons := env.mustBook(t, "Бесы", "Фёдор Достоевский")
	env.mustReview(t, u, idiot.ID, 9)
	env.mustReview(t, u, demons.ID, 4)

	all, err := env.reviews.ListReviews(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Идиот", all[0].BookTitle())
	assert.Equal(t, "pupkinvasya", all[0].UserTitle())

	id := demons.ID
	one, err := env.reviews.ListReviews(ctx, &id)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 4, one[0].Rating)

	missing := uint(999)
	_, err = env.reviews.ListReviews(ctx, &missing)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Contains(t, env.pub.types(), events.ReviewAdded)
}

func TestReviewService_AggregatesFollowReviews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.mustRegister(t, "pupkinvasya", "kupiPirozhok")
	b := env.mustBook(t, "Идиот", "Фёдор Достоевский")

	for _, s := range []int{1, 1, 2} {
		env.mustReview(t, u, b.ID, s)
	}

	got, err := env.catalog.GetBook(ctx, b.ID)
	require.NoError(t, err)
	agg, err := env.catalog.AverageRating(ctx, b.ID)
	require.NoError(t, err)
	_, listed, err := env.catalog.ListBooks(ctx, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 4.0/3.0, got.AvgRating)
	assert.Equal(t, got.AvgRating, agg)
	assert.Equal(t, got.AvgRating, listed[0].AvgRating)
}
