package implementation

import (
	"context"

	"collabdesk-be/internal/model"
	"collabdesk-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ArchiveRepositoryImpl struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) contract.ArchiveRepository {
	return &ArchiveRepositoryImpl{db: db}
}

func (r *ArchiveRepositoryImpl) Create(ctx context.Context, archive *model.SessionArchive) error {
	return r.db.WithContext(ctx).Create(archive).Error
}
