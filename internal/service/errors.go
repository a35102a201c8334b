package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/hash"
	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/metrics"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrDuplicate    = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrForbidden    = errors.New("not allowed")
)

// hashPassword maps bcrypt's length limit onto a validation error; the
// request validator counts characters, bcrypt counts bytes.
func hashPassword(password string) (string, error) {
	h, err := hash.HashPassword(password)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, hash.MaxPasswordBytes)
	}
	return h, err
}

// publish sends ev and only logs a failure; the write it describes has
// already been committed.
func publish(ctx context.Context, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

func recorder(m metrics.Recorder) metrics.Recorder {
	if m == nil {
		return metrics.Nop{}
	}
	return m
}
