package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/metrics"
	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/rating"
	"github.com/Skotchmaster/book_catalog/internal/repo"
)

type ReviewService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics metrics.Recorder
}

type NewReview struct {
	BookID uint
	Text   string
	Rating int
}

// AddReview stores a review written by author.
func (s *ReviewService) AddReview(ctx context.Context, author *models.User, in NewReview) (*models.Review, error) {
	if !rating.Valid(in.Rating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, rating.Min, rating.Max)
	}

	rv := models.Review{Text: in.Text, Rating: in.Rating, UserID: author.ID, BookID: in.BookID}
	if err := s.Repo.CreateReview(ctx, &rv); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, in.BookID)
		}
		return nil, err
	}

	recorder(s.Metrics).RecordReviewCreated(rv.Rating)
	publish(ctx, s.Events, events.TopicReviews, strconv.FormatUint(uint64(rv.ID), 10), events.Event{
		Type: events.ReviewAdded, ReviewID: rv.ID, BookID: rv.BookID, UserID: rv.UserID, Rating: rv.Rating,
	})
	return &rv, nil
}

// ListReviews returns every review, or only those of bookID when it is set.
func (s *ReviewService) ListReviews(ctx context.Context, bookID *uint) ([]models.Review, error) {
	if bookID != nil {
		ok, err := s.Repo.BookExists(ctx, *bookID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, *bookID)
		}
	}
	return s.Repo.ListReviews(ctx, bookID)
}
