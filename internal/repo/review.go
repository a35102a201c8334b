package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/book_catalog/internal/models"
)

// CreateReview stores rv after checking that its book exists.
func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Select("id").First(&book, rv.BookID).Error; err != nil {
			return fmt.Errorf("book %d: %w", rv.BookID, err)
		}
		return tx.Create(rv).Error
	})
}

// ListReviews returns reviews with their book and author preloaded. A nil
// bookID lists every review.
func (r *GormRepo) ListReviews(ctx context.Context, bookID *uint) ([]models.Review, error) {
	q := r.DB.WithContext(ctx).Preload("User").Preload("Book").Order("id ASC")
	if bookID != nil {
		q = q.Where("book_id = ?", *bookID)
	}

	var reviews []models.Review
	if err := q.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
