package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/book_catalog/internal/db"
	"github.com/Skotchmaster/book_catalog/internal/logging"
)

type AdminService struct {
	DB *gorm.DB
}

// ResetDatabase drops and recreates every table. All data is lost.
func (s *AdminService) ResetDatabase(ctx context.Context) error {
	logging.FromContext(ctx).Warn("database_reset", "svc", "admin.reset")
	return db.Reset(ctx, s.DB)
}

func (s *AdminService) Ready(ctx context.Context) error {
	return db.Ping(ctx, s.DB)
}
