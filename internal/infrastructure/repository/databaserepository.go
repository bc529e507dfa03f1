package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// DatabaseRepositoryImpl stores plan template databases.
type DatabaseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ClientMapper
	logger logger.Interface
}

func NewDatabaseRepository(db *gorm.DB, logger logger.Interface) client.DatabaseRepository {
	return &DatabaseRepositoryImpl{
		db:     db,
		mapper: mappers.NewClientMapper(),
		logger: logger,
	}
}

func (r *DatabaseRepositoryImpl) Create(ctx context.Context, d *client.Database) error {
	model, err := r.mapper.DatabaseToModel(d)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create template database", "error", err, "name", d.Name())
		return fmt.Errorf("failed to create template database: %w", err)
	}
	return d.SetID(model.ID)
}

func (r *DatabaseRepositoryImpl) GetByID(ctx context.Context, id uint) (*client.Database, error) {
	var model models.DatabaseModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get template database", "error", err, "database_id", id)
		return nil, fmt.Errorf("failed to get template database: %w", err)
	}
	return r.mapper.DatabaseToEntity(&model)
}

func (r *DatabaseRepositoryImpl) Update(ctx context.Context, d *client.Database) error {
	model, err := r.mapper.DatabaseToModel(d)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).Model(&models.DatabaseModel{}).
		Where("id = ?", d.ID()).
		Select("*").Omit("id", "sid", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update template database", "error", result.Error, "database_id", d.ID())
		return fmt.Errorf("failed to update template database: %w", result.Error)
	}
	return nil
}

func (r *DatabaseRepositoryImpl) CountLiveByServer(ctx context.Context, serverID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.DatabaseModel{}).
		Scopes(db.Live()).
		Where("server_id = ?", serverID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count template databases on server: %w", err)
	}
	return count, nil
}
