// Package search finds books by title or author. Elasticsearch is used when
// configured; otherwise the catalog database answers with LIKE queries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/book_catalog/internal/models"
)

type Index interface {
	Search(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error)
	IndexBook(ctx context.Context, book models.Book) error
	DeleteBook(ctx context.Context, id uint) error
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{es: es, index: index}
}

type bookDoc struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

func (x *ESIndex) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^2", "author"},
				"fuzziness": "AUTO",
			},
		},
		"from": offset,
		"size": limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search %s: %w", x.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search %s: %s", x.index, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source bookDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	books := make([]models.Book, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		books[i] = models.Book{ID: hit.Source.ID, Title: hit.Source.Title, Author: hit.Source.Author, Genre: hit.Source.Genre}
	}
	return r.Hits.Total.Value, books, nil
}

func (x *ESIndex) IndexBook(ctx context.Context, book models.Book) error {
	data, err := json.Marshal(bookDoc{ID: book.ID, Title: book.Title, Author: book.Author, Genre: book.Genre})
	if err != nil {
		return err
	}

	res, err := x.es.Index(x.index, bytes.NewReader(data),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(strconv.FormatUint(uint64(book.ID), 10)),
		x.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index book %d: %w", book.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index book %d: %s", book.ID, res.Status())
	}
	return nil
}

// DeleteBook removes the document. A document that is already gone is fine.
func (x *ESIndex) DeleteBook(ctx context.Context, id uint) error {
	res, err := x.es.Delete(x.index, strconv.FormatUint(uint64(id), 10),
		x.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete book %d: %s", id, res.Status())
	}
	return nil
}

type bookSearcher interface {
	SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error)
}

// DBIndex answers searches from the catalog tables, which are always current,
// so there is nothing to index.
type DBIndex struct {
	Repo bookSearcher
}

func (x DBIndex) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	return x.Repo.SearchBooks(ctx, q, offset, limit)
}

func (DBIndex) IndexBook(context.Context, models.Book) error { return nil }
func (DBIndex) DeleteBook(context.Context, uint) error       { return nil }

// Normalize trims q and reports whether anything is left to search for.
func Normalize(q string) (string, bool) {
	q = strings.TrimSpace(q)
	return q, q != ""
}
