package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/rating"
)

type BookPatch struct {
	Title  *string
	Author *string
	Genre  *string
}

type ratingTotals struct {
	RatingSum   int64
	RatingCount int64
}

type ratedBookRow struct {
	ID          uint
	Title       string
	Author      string
	Genre       string
	RatingSum   int64
	RatingCount int64
}

func (r *GormRepo) CreateBook(ctx context.Context, book *models.Book) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := bookTaken(tx, book.Title, book.Author, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%q by %q: %w", book.Title, book.Author, ErrBookAlreadyExist)
		}
		return tx.Create(book).Error
	})
}

// GetBook loads the book with its reviews and averages them in memory.
func (r *GormRepo) GetBook(ctx context.Context, id uint) (*models.RatedBook, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).Preload("Reviews").First(&book, id).Error; err != nil {
		return nil, fmt.Errorf("book %d: %w", id, err)
	}
	rated := models.NewRatedBook(book, rating.Average(book.Reviews))
	return &rated, nil
}

func (r *GormRepo) BookExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBooks returns one page of books, each rated by a single grouped join.
func (r *GormRepo) ListBooks(ctx context.Context, offset, limit int) (int64, []models.RatedBook, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var rows []ratedBookRow
	err := r.DB.WithContext(ctx).
		Model(&models.Book{}).
		Select("books.id, books.title, books.author, books.genre, " +
			"CAST(COALESCE(SUM(reviews.rating), 0) AS BIGINT) AS rating_sum, COUNT(reviews.id) AS rating_count").
		Joins("LEFT JOIN reviews ON reviews.book_id = books.id").
		Group("books.id, books.title, books.author, books.genre").
		Order("books.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return 0, nil, err
	}

	items := make([]models.RatedBook, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.RatedBook{
			ID:        row.ID,
			Title:     row.Title,
			Author:    row.Author,
			Genre:     row.Genre,
			AvgRating: rating.Mean(row.RatingSum, row.RatingCount),
		})
	}
	return total, items, nil
}

// AverageRating asks the database for SUM and COUNT of the book's ratings.
func (r *GormRepo) AverageRating(ctx context.Context, bookID uint) (float64, error) {
	var totals ratingTotals
	err := r.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("CAST(COALESCE(SUM(rating), 0) AS BIGINT) AS rating_sum, COUNT(*) AS rating_count").
		Where("book_id = ?", bookID).
		Scan(&totals).Error
	if err != nil {
		return 0, err
	}
	return rating.Mean(totals.RatingSum, totals.RatingCount), nil
}

// PatchBook applies patch. The resulting title/author pair must not belong to
// another book.
func (r *GormRepo) PatchBook(ctx context.Context, id uint, patch BookPatch) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return fmt.Errorf("book %d: %w", id, err)
		}

		if patch.Title != nil {
			book.Title = *patch.Title
		}
		if patch.Author != nil {
			book.Author = *patch.Author
		}
		if patch.Genre != nil {
			book.Genre = *patch.Genre
		}

		taken, err := bookTaken(tx, book.Title, book.Author, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%q by %q: %w", book.Title, book.Author, ErrBookAlreadyExist)
		}
		return tx.Save(&book).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes the book and all of its reviews.
func (r *GormRepo) DeleteBook(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, id).Error; err != nil {
			return fmt.Errorf("book %d: %w", id, err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchBooks matches q against title and author, case-insensitively as far
// as the database's LOWER goes.
func (r *GormRepo) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	pattern := "%" + likeEscaper.Replace(q) + "%"
	where := r.DB.WithContext(ctx).
		Model(&models.Book{}).
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(author) LIKE LOWER(?) ESCAPE '\'`, pattern, pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var books []models.Book
	if err := where.Session(&gorm.Session{}).Order("id ASC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return 0, nil, err
	}
	return total, books, nil
}

// AllBooks streams every book in id order, used to rebuild the search index.
func (r *GormRepo) AllBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func bookTaken(tx *gorm.DB, title, author string, exceptID uint) (bool, error) {
	q := tx.Model(&models.Book{}).Where("title = ? AND author = ?", title, author)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
