package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/metrics"
	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/repo"
	"github.com/Skotchmaster/book_catalog/internal/search"
)

type CatalogService struct {
	Repo    *repo.GormRepo
	Index   search.Index
	Events  events.Publisher
	Metrics metrics.Recorder
}

type NewBook struct {
	Title  string
	Author string
	Genre  string
}

func (s *CatalogService) CreateBook(ctx context.Context, in NewBook) (*models.Book, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrValidation)
	}

	book := models.Book{Title: in.Title, Author: in.Author, Genre: in.Genre}
	if err := s.Repo.CreateBook(ctx, &book); err != nil {
		if errors.Is(err, repo.ErrBookAlreadyExist) {
			return nil, fmt.Errorf("%w: book with this title and author", ErrDuplicate)
		}
		return nil, err
	}

	recorder(s.Metrics).RecordBookChange("create")
	s.syncIndex(ctx, book)
	publish(ctx, s.Events, events.TopicBooks, bookKey(book.ID), events.Event{Type: events.BookCreated, BookID: book.ID})
	return &book, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.RatedBook, error) {
	book, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
		}
		return nil, err
	}
	return book, nil
}

func (s *CatalogService) ListBooks(ctx context.Context, offset, limit int) (int64, []models.RatedBook, error) {
	return s.Repo.ListBooks(ctx, offset, limit)
}

// AverageRating computes the book's rating with a database aggregate.
func (s *CatalogService) AverageRating(ctx context.Context, id uint) (float64, error) {
	ok, err := s.Repo.BookExists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}
	return s.Repo.AverageRating(ctx, id)
}

func (s *CatalogService) PatchBook(ctx context.Context, id uint, patch repo.BookPatch) (*models.Book, error) {
	book, err := s.Repo.PatchBook(ctx, id, patch)
	if err != nil {
		switch {
		case repo.IsNotFound(err):
			return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
		case errors.Is(err, repo.ErrBookAlreadyExist):
			return nil, fmt.Errorf("%w: book with this title and author", ErrDuplicate)
		}
		return nil, err
	}

	recorder(s.Metrics).RecordBookChange("update")
	s.syncIndex(ctx, *book)
	publish(ctx, s.Events, events.TopicBooks, bookKey(book.ID), events.Event{Type: events.BookUpdated, BookID: book.ID})
	return book, nil
}

// DeleteBook removes the book and its reviews.
func (s *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteBook(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: book %d", ErrNotFound, id)
		}
		return err
	}

	recorder(s.Metrics).RecordBookChange("delete")
	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "svc", "catalog.delete_book", "book_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicBooks, bookKey(id), events.Event{Type: events.BookDeleted, BookID: id})
	return nil
}

// SearchBooks queries the search index and falls back to the database when
// the index fails.
func (s *CatalogService) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	q, ok := search.Normalize(q)
	if !ok {
		return 0, nil, fmt.Errorf("%w: empty query", ErrValidation)
	}

	fallback := search.DBIndex{Repo: s.Repo}
	if s.Index == nil {
		return fallback.Search(ctx, q, offset, limit)
	}

	total, books, err := s.Index.Search(ctx, q, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "svc", "catalog.search", "error", err)
		return fallback.Search(ctx, q, offset, limit)
	}
	return total, books, nil
}

// Reindex pushes every stored book into the search index.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	books, err := s.Repo.AllBooks(ctx)
	if err != nil {
		return 0, err
	}
	for i, b := range books {
		if err := s.Index.IndexBook(ctx, b); err != nil {
			return i, err
		}
	}
	return len(books), nil
}

func (s *CatalogService) syncIndex(ctx context.Context, book models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, book); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "svc", "catalog.index_book", "book_id", book.ID, "error", err)
	}
}

func bookKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
