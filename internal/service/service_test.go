package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/book_catalog/internal/db"
	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/repo"
	"github.com/Skotchmaster/book_catalog/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	topics []string
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event.(events.Event))
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingRecorder struct {
	mu            sync.Mutex
	loginsOK      int
	loginsFailed  int
	authRejected  int
	bookChanges   []string
	reviewsStored int
}

func (c *countingRecorder) RecordLogin(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if success {
		c.loginsOK++
	} else {
		c.loginsFailed++
	}
}

func (c *countingRecorder) RecordAuthRejected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authRejected++
}

func (c *countingRecorder) RecordBookChange(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookChanges = append(c.bookChanges, op)
}

func (c *countingRecorder) RecordReviewCreated(int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviewsStored++
}

type testEnv struct {
	repo    *repo.GormRepo
	pub     *recordingPublisher
	metrics *countingRecorder
	auth    *AuthService
	catalog *CatalogService
	reviews *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	pub := &recordingPublisher{}
	m := &countingRecorder{}

	return &testEnv{
		repo:    r,
		pub:     pub,
		metrics: m,
		auth:    &AuthService{Repo: r, Tokens: tokens.NewIssuer(testSecret, 0), Events: pub, Metrics: m},
		catalog: &CatalogService{Repo: r, Events: pub, Metrics: m},
		reviews: &ReviewService{Repo: r, Events: pub, Metrics: m},
	}
}

func (e *testEnv) mustRegister(t *testing.T, username, password string) *models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), username, password)
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustBook(t *testing.T, title, author string) *models.Book {
	t.Helper()
	b, err := e.catalog.CreateBook(context.Background(), NewBook{Title: title, Author: author, Genre: "Роман"})
	require.NoError(t, err)
	return b
}

func (e *testEnv) mustReview(t *testing.T, author *models.User, bookID uint, score int) *models.Review {
	t.Helper()
	rv, err := e.reviews.AddReview(context.Background(), author, NewReview{BookID: bookID, Text: "отзыв", Rating: score})
	require.NoError(t, err)
	return rv
}

var errBrokerDown = errors.New("broker down")
